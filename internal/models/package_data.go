package models

import "fmt"

// PackageData describes naming of one published package family
type PackageData struct {
	Name              string // python import name of the package
	PyPIName          string // distribution name on PyPI
	PyPIFullName      string // distribution name of the all-in-one variant
	LibraryName       string // runtime library the stubs describe
	ServicePrefix     string // module prefix for per-service packages
	ServicePyPIPrefix string // distribution prefix for per-service packages
}

var (
	// Boto3StubsPackageData is the boto3-stubs wrapper package
	Boto3StubsPackageData = &PackageData{
		Name:              "boto3-stubs",
		PyPIName:          "boto3-stubs",
		PyPIFullName:      "boto3-stubs-full",
		LibraryName:       "boto3",
		ServicePrefix:     "mypy_boto3",
		ServicePyPIPrefix: "mypy-boto3",
	}

	// MypyBoto3PackageData is the master package
	MypyBoto3PackageData = &PackageData{
		Name:              "mypy_boto3",
		PyPIName:          "mypy-boto3",
		LibraryName:       "boto3",
		ServicePrefix:     "mypy_boto3",
		ServicePyPIPrefix: "mypy-boto3",
	}

	// Boto3StubsFullPackageData ships all services in one distribution
	Boto3StubsFullPackageData = &PackageData{
		Name:              "boto3-stubs",
		PyPIName:          "boto3-stubs-full",
		PyPIFullName:      "boto3-stubs-full",
		LibraryName:       "boto3",
		ServicePrefix:     "mypy_boto3",
		ServicePyPIPrefix: "mypy-boto3",
	}
)

// ServicePackageName is the module name, e.g. "mypy_boto3_ec2"
func (d *PackageData) ServicePackageName(sn *ServiceName) string {
	return fmt.Sprintf("%s_%s", d.ServicePrefix, sn.UnderscoreName())
}

// ServicePyPIName is the distribution name, e.g. "mypy-boto3-ec2"
func (d *PackageData) ServicePyPIName(sn *ServiceName) string {
	return fmt.Sprintf("%s-%s", d.ServicePyPIPrefix, sn.Name)
}

// ServicePyPILink points to the project page of a service package
func (d *PackageData) ServicePyPILink(sn *ServiceName) string {
	return fmt.Sprintf("https://pypi.org/project/%s/", d.ServicePyPIName(sn))
}
