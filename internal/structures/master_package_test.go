package structures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/pystubgen/internal/models"
	ta "github.com/toyz/pystubgen/internal/typeannotations"
)

func TestMasterPackage_Init(t *testing.T) {
	pkg := NewMasterPackage([]*models.ServiceName{models.EC2, models.Logs}, nil, "1.2.3")

	require.NotNil(t, pkg)
	assert.Equal(t, []*models.ServiceName{models.EC2}, pkg.EssentialServiceNames)
	assert.Empty(t, pkg.Literals)
	assert.Equal(t, "mypy-boto3", pkg.PyPIName)
	assert.Equal(t, "1.2.3", pkg.Version)
}

func TestMasterPackage_AggregatesLiterals(t *testing.T) {
	ec2 := NewServicePackage(models.Boto3StubsPackageData, models.EC2, "1.2.3")
	s3 := NewServicePackage(models.Boto3StubsPackageData, models.S3, "1.2.3")
	region, err := ta.NewTypeLiteral("RegionName", "us-east-1", "eu-west-1")
	require.NoError(t, err)
	bucket, err := ta.NewTypeLiteral("BucketType", "a", "b")
	require.NoError(t, err)
	ec2.Literals = []*ta.TypeLiteral{region}
	s3.Literals = []*ta.TypeLiteral{region, bucket}

	pkg := NewMasterPackage([]*models.ServiceName{models.EC2, models.S3}, []*ServicePackage{ec2, s3}, "1.2.3")

	assert.Equal(t, []*ta.TypeLiteral{bucket, region}, pkg.Literals)
	assert.Equal(t, []*models.ServiceName{models.EC2, models.S3}, pkg.EssentialServiceNames)
}

func TestStubsPackage(t *testing.T) {
	pkg, err := NewStubsPackage(models.Boto3StubsPackageData, []*models.ServiceName{models.S3, models.Logs}, "1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "ServiceName", pkg.Literals[0].Name)
	assert.Equal(t, []string{"logs", "s3"}, pkg.Literals[0].Children())
	assert.Equal(t, []*models.ServiceName{models.S3}, pkg.EssentialServiceNames())

	_, err = NewStubsPackage(models.Boto3StubsPackageData, nil, "1.2.3")
	assert.Error(t, err)
}

func TestPackage(t *testing.T) {
	pkg := NewPackage(models.Boto3StubsPackageData, "mypy_boto3_ec2", "mypy-boto3-ec2", "1.22.36.post2", []*models.ServiceName{models.EC2})

	assert.Equal(t, "1.22.36", pkg.LibraryVersion)
	assert.Equal(t, "1.22.0", pkg.MinLibraryVersion())
	assert.Equal(t, "1.23.0", pkg.MaxLibraryVersion())
	assert.Equal(t, "mypy_boto3_ec2_package", pkg.DirectoryName())
	assert.Equal(t, "Type annotations for boto3 1.22.36.post2 EC2 service", pkg.Summary())
}
