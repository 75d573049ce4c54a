package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceName(t *testing.T) {
	sn := NewServiceName("resource-groups", "")

	assert.Equal(t, "ResourceGroups", sn.ClassName)
	assert.Equal(t, "resource_groups", sn.UnderscoreName())
	assert.Equal(t, "resource-groups", sn.Boto3Name())
	assert.False(t, sn.IsEssential())

	keyword := NewServiceName("lambda", "Lambda")
	assert.Equal(t, "lambda_", keyword.ImportName())
	assert.True(t, keyword.IsEssential())
}

func TestServiceNameCatalog(t *testing.T) {
	catalog := NewServiceNameCatalog()

	ec2, ok := catalog.Get("ec2")
	require.True(t, ok)
	assert.Same(t, EC2, ec2)

	added := catalog.Add("sns", "SNS")
	again := catalog.Add("sns", "")
	assert.Same(t, added, again)
	assert.Equal(t, "sns", catalog.All()[len(catalog.All())-1].Name)
}

func TestFilterEssential(t *testing.T) {
	result := FilterEssential([]*ServiceName{Logs, S3, EC2})

	assert.Equal(t, []*ServiceName{S3, EC2}, result)
}

func TestPackageData(t *testing.T) {
	sn := NewServiceName("ec2", "EC2")

	assert.Equal(t, "mypy_boto3_ec2", Boto3StubsPackageData.ServicePackageName(sn))
	assert.Equal(t, "mypy-boto3-ec2", Boto3StubsPackageData.ServicePyPIName(sn))
	assert.Equal(t, "https://pypi.org/project/mypy-boto3-ec2/", Boto3StubsPackageData.ServicePyPILink(sn))
}

func TestOutputTypes(t *testing.T) {
	tests := []struct {
		name      string
		types     OutputTypes
		package_  bool
		packaged  bool
		temporary bool
	}{
		{"package", OutputTypes{OutputTypePackage}, true, false, false},
		{"wheel", OutputTypes{OutputTypeWheel}, true, true, true},
		{"wheel and source", OutputTypes{OutputTypeWheel, OutputTypeSource}, true, true, true},
		{"installed", OutputTypes{OutputTypeInstalled}, false, false, false},
		{"package and wheel", OutputTypes{OutputTypePackage, OutputTypeWheel}, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.package_, tt.types.IsPackage())
			assert.Equal(t, tt.packaged, tt.types.IsPackaged())
			assert.Equal(t, tt.temporary, tt.types.IsPackageTemporary())
		})
	}
}

func TestParseOutputTypeAndProduct(t *testing.T) {
	ot, err := ParseOutputType(" Wheel ")
	require.NoError(t, err)
	assert.Equal(t, OutputTypeWheel, ot)

	_, err = ParseOutputType("zip")
	assert.Error(t, err)

	p, err := ParseProduct("full")
	require.NoError(t, err)
	assert.Equal(t, Boto3StubsFullPackageData, p.PackageData())

	_, err = ParseProduct("docs")
	assert.Error(t, err)
}
