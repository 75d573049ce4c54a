package generators

import (
	"context"

	"github.com/toyz/pystubgen/internal/models"
	"github.com/toyz/pystubgen/internal/parser"
	"github.com/toyz/pystubgen/internal/structures"
)

func (g *Generator) generateServicePackages(ctx context.Context) ([]*structures.Package, error) {
	w, err := g.writer()
	if err != nil {
		return nil, err
	}
	data := models.Boto3StubsPackageData
	total := len(g.cfg.ServiceNames)
	var written []*structures.Package
	for i, sn := range g.cfg.ServiceNames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pypiName := data.ServicePyPIName(sn)
		ver, ok, err := g.packageVersion(ctx, pypiName)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		g.diag.Progress(i+1, total, "Generating %s %s", pypiName, ver)
		pkg, err := g.parseServicePackage(sn, data, ver)
		if err != nil {
			return nil, err
		}
		if err := w.WriteServicePackage(ctx, pkg); err != nil {
			return nil, err
		}
		written = append(written, g.recordPackage(pkg.Package))
	}
	return written, nil
}

func (g *Generator) generateMasterPackage(ctx context.Context) ([]*structures.Package, error) {
	pypiName := models.MypyBoto3PackageData.PyPIName
	ver, ok, err := g.packageVersion(ctx, pypiName)
	if err != nil || !ok {
		return nil, err
	}
	w, err := g.writer()
	if err != nil {
		return nil, err
	}

	g.diag.Info("Generating %s %s", pypiName, ver)
	servicePackages, err := g.parseServicePackages(ctx, models.Boto3StubsPackageData, g.cfg.MasterServiceNames, ver, "Parsing %s")
	if err != nil {
		return nil, err
	}
	pkg := parser.ParseMasterPackage(g.cfg.MasterServiceNames, servicePackages, ver)
	if err := w.WriteMasterPackage(ctx, pkg); err != nil {
		return nil, err
	}
	return []*structures.Package{g.recordPackage(pkg.Package)}, nil
}

func (g *Generator) generateStubsPackage(ctx context.Context) ([]*structures.Package, error) {
	data := models.Boto3StubsPackageData
	ver, ok, err := g.packageVersion(ctx, data.PyPIName)
	if err != nil || !ok {
		return nil, err
	}
	w, err := g.writer()
	if err != nil {
		return nil, err
	}
	staticPath, err := g.staticFilesPath(ctx)
	if err != nil {
		return nil, err
	}

	g.diag.Info("Generating %s %s", data.PyPIName, ver)
	pkg, err := parser.ParseStubsPackage(data, g.cfg.MasterServiceNames, nil, ver, staticPath)
	if err != nil {
		return nil, err
	}
	if err := w.WriteStubsPackage(ctx, pkg); err != nil {
		return nil, err
	}
	return []*structures.Package{g.recordPackage(pkg.Package)}, nil
}

func (g *Generator) generateFullPackage(ctx context.Context) ([]*structures.Package, error) {
	data := models.Boto3StubsFullPackageData
	ver, ok, err := g.packageVersion(ctx, data.PyPIName)
	if err != nil || !ok {
		return nil, err
	}
	w, err := g.writer()
	if err != nil {
		return nil, err
	}

	g.diag.Info("Generating %s %s", data.PyPIName, ver)
	servicePackages, err := g.parseServicePackages(ctx, data, g.cfg.ServiceNames, ver, "Generating %s package directory")
	if err != nil {
		return nil, err
	}
	pkg, err := parser.ParseStubsPackage(data, g.cfg.ServiceNames, servicePackages, ver, "")
	if err != nil {
		return nil, err
	}
	if err := w.WriteStubsPackage(ctx, pkg); err != nil {
		return nil, err
	}
	return []*structures.Package{g.recordPackage(pkg.Package)}, nil
}

// parseServicePackages parses services in order with a numbered progress
// line; format receives the service module name.
func (g *Generator) parseServicePackages(ctx context.Context, data *models.PackageData, serviceNames []*models.ServiceName, ver, format string) ([]*structures.ServicePackage, error) {
	result := make([]*structures.ServicePackage, 0, len(serviceNames))
	for i, sn := range serviceNames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g.diag.Progress(i+1, len(serviceNames), format, data.ServicePackageName(sn))
		pkg, err := g.parseServicePackage(sn, data, ver)
		if err != nil {
			return nil, err
		}
		result = append(result, pkg)
	}
	return result, nil
}
