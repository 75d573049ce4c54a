package parser

import (
	"github.com/toyz/pystubgen/internal/models"
	"github.com/toyz/pystubgen/internal/structures"
)

// ParseMasterPackage builds the mypy-boto3 package over parsed services
func ParseMasterPackage(serviceNames []*models.ServiceName, servicePackages []*structures.ServicePackage, ver string) *structures.MasterPackage {
	return structures.NewMasterPackage(serviceNames, servicePackages, ver)
}

// ParseStubsPackage builds the boto3-stubs wrapper. servicePackages is set
// only for the full variant, which ships every service inside the wrapper.
func ParseStubsPackage(data *models.PackageData, serviceNames []*models.ServiceName, servicePackages []*structures.ServicePackage, ver, staticFilesPath string) (*structures.StubsPackage, error) {
	pkg, err := structures.NewStubsPackage(data, serviceNames, ver)
	if err != nil {
		return nil, err
	}
	pkg.ServicePackages = servicePackages
	pkg.StaticFilesPath = staticFilesPath
	return pkg, nil
}
