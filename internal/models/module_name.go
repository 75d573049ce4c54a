package models

// ServiceModuleName is a module generated inside every service package
type ServiceModuleName string

const (
	ModuleClient          ServiceModuleName = "client"
	ModuleServiceResource ServiceModuleName = "service_resource"
	ModulePaginator       ServiceModuleName = "paginator"
	ModuleWaiter          ServiceModuleName = "waiter"
	ModuleTypeDefs        ServiceModuleName = "type_defs"
	ModuleLiterals        ServiceModuleName = "literals"
)

// FileName is the stub file the module is written to
func (m ServiceModuleName) FileName() string {
	return string(m) + ".pyi"
}

// TemplateName is the template that renders the module
func (m ServiceModuleName) TemplateName() string {
	return string(m) + ".pyi.tmpl"
}
