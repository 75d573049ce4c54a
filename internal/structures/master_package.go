package structures

import (
	"github.com/toyz/pystubgen/internal/models"
	ta "github.com/toyz/pystubgen/internal/typeannotations"
)

// MasterPackage is the mypy-boto3 package that bundles service packages
type MasterPackage struct {
	*Package
	ServicePackages       []*ServicePackage
	EssentialServiceNames []*models.ServiceName
	Literals              []*ta.TypeLiteral
}

// NewMasterPackage keeps the essential services in input order and
// aggregates the literals of the member packages.
func NewMasterPackage(serviceNames []*models.ServiceName, servicePackages []*ServicePackage, ver string) *MasterPackage {
	data := models.MypyBoto3PackageData
	literals := []*ta.TypeLiteral{}
	for _, servicePackage := range servicePackages {
		literals = append(literals, servicePackage.Literals...)
	}
	return &MasterPackage{
		Package:               NewPackage(data, data.Name, data.PyPIName, ver, serviceNames),
		ServicePackages:       servicePackages,
		EssentialServiceNames: models.FilterEssential(serviceNames),
		Literals:              ta.UniqueSorted(literals),
	}
}
