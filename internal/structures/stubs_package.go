package structures

import (
	"github.com/toyz/pystubgen/internal/models"
	ta "github.com/toyz/pystubgen/internal/typeannotations"
)

// StubsPackage is the boto3-stubs wrapper. In its full variant it also
// carries every service package as a sub-directory.
type StubsPackage struct {
	*Package
	ServicePackages []*ServicePackage
	StaticFilesPath string
	Literals        []*ta.TypeLiteral
}

// NewStubsPackage creates the wrapper with a ServiceName literal of all
// services. It fails when no service is given.
func NewStubsPackage(data *models.PackageData, serviceNames []*models.ServiceName, ver string) (*StubsPackage, error) {
	names := make([]string, len(serviceNames))
	for i, sn := range serviceNames {
		names[i] = sn.Boto3Name()
	}
	serviceNameLiteral, err := ta.NewTypeLiteral("ServiceName", names...)
	if err != nil {
		return nil, err
	}
	return &StubsPackage{
		Package:  NewPackage(data, data.Name, data.PyPIName, ver, serviceNames),
		Literals: []*ta.TypeLiteral{serviceNameLiteral},
	}, nil
}

// EssentialServiceNames are the services installed by default
func (p *StubsPackage) EssentialServiceNames() []*models.ServiceName {
	return models.FilterEssential(p.ServiceNames)
}
