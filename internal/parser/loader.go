package parser

import (
	"bytes"
	stdjson "encoding/json"
	"io/fs"
	"path"
	"sort"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/models"
	"github.com/toyz/pystubgen/internal/utils"
)

// ShapeRef points at a shape from an operation or a member
type ShapeRef struct {
	Shape         string `json:"shape"`
	Documentation string `json:"documentation"`
	Location      string `json:"location"`
	LocationName  string `json:"locationName"`
	Deprecated    bool   `json:"deprecated"`
}

// Member is one structure member, in declaration order
type Member struct {
	Name string
	Ref  *ShapeRef
}

// Members keeps structure members in the order of the model file
type Members []Member

// UnmarshalJSON decodes a members object preserving key order
func (m *Members) UnmarshalJSON(data []byte) error {
	values := make(map[string]*ShapeRef)
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}

	dec := stdjson.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	result := make(Members, 0, len(values))
	for dec.More() {
		token, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := token.(string)
		var skip stdjson.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return err
		}
		result = append(result, Member{Name: name, Ref: values[name]})
	}
	*m = result
	return nil
}

// Shape is a botocore shape definition
type Shape struct {
	Type          string    `json:"type"`
	Members       Members   `json:"members"`
	Required      []string  `json:"required"`
	Member        *ShapeRef `json:"member"`
	Key           *ShapeRef `json:"key"`
	Value         *ShapeRef `json:"value"`
	Enum          []string  `json:"enum"`
	Documentation string    `json:"documentation"`
	Streaming     bool      `json:"streaming"`
	Exception     bool      `json:"exception"`
	Document      bool      `json:"document"`
	Union         bool      `json:"union"`
	EventStream   bool      `json:"eventstream"`
}

// IsRequired reports a required member of a structure
func (s *Shape) IsRequired(member string) bool {
	for _, name := range s.Required {
		if name == member {
			return true
		}
	}
	return false
}

// Operation is one API call
type Operation struct {
	Name          string    `json:"name"`
	Input         *ShapeRef `json:"input"`
	Output        *ShapeRef `json:"output"`
	Documentation string    `json:"documentation"`
	Deprecated    bool      `json:"deprecated"`
	HTTP          struct {
		Method     string `json:"method"`
		RequestURI string `json:"requestUri"`
	} `json:"http"`
}

// Metadata describes the service
type Metadata struct {
	APIVersion      string `json:"apiVersion"`
	EndpointPrefix  string `json:"endpointPrefix"`
	Protocol        string `json:"protocol"`
	ServiceFullName string `json:"serviceFullName"`
	ServiceID       string `json:"serviceId"`
}

// ServiceModel is the decoded service-2.json
type ServiceModel struct {
	Metadata      Metadata              `json:"metadata"`
	Operations    map[string]*Operation `json:"operations"`
	Shapes        map[string]*Shape     `json:"shapes"`
	Documentation string                `json:"documentation"`
}

// OperationNames returns operation names sorted
func (m *ServiceModel) OperationNames() []string {
	return sortedKeys(m.Operations)
}

// PaginatorConfig is one entry of paginators-1.json. Token fields may be a
// string or a list of strings.
type PaginatorConfig struct {
	InputToken  any    `json:"input_token"`
	OutputToken any    `json:"output_token"`
	LimitKey    string `json:"limit_key"`
	ResultKey   any    `json:"result_key"`
	MoreResults string `json:"more_results"`
}

// InputTokens returns the request members that carry pagination state
func (c PaginatorConfig) InputTokens() []string {
	tokens := stringList(c.InputToken)
	if c.LimitKey != "" {
		tokens = append(tokens, c.LimitKey)
	}
	return tokens
}

// PaginatorModel is the decoded paginators-1.json
type PaginatorModel struct {
	Pagination map[string]PaginatorConfig `json:"pagination"`
}

// WaiterConfig is one entry of waiters-2.json
type WaiterConfig struct {
	Operation   string `json:"operation"`
	Delay       int    `json:"delay"`
	MaxAttempts int    `json:"maxAttempts"`
	Description string `json:"description"`
}

// WaiterModel is the decoded waiters-2.json
type WaiterModel struct {
	Version int                     `json:"version"`
	Waiters map[string]WaiterConfig `json:"waiters"`
}

// Loader reads botocore-style models laid out as
// <root>/<service>/<api-version>/service-2.json
type Loader struct {
	fs     afero.Fs
	root   string
	models *utils.Cache[string, *ServiceModel]
}

// NewLoader creates a loader over root
func NewLoader(fsys afero.Fs, root string) *Loader {
	return &Loader{
		fs:     fsys,
		root:   root,
		models: utils.NewCache[string, *ServiceModel](),
	}
}

// ServiceNames lists services that have at least one model version
func (l *Loader) ServiceNames() ([]string, error) {
	entries, err := afero.ReadDir(l.fs, l.root)
	if err != nil {
		return nil, errors.WrapFileSystemError("read models directory", l.root, err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := l.APIVersion(entry.Name()); err == nil {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// APIVersion returns the newest model version directory of a service
func (l *Loader) APIVersion(service string) (string, error) {
	dir := path.Join(l.root, service)
	entries, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return "", errors.WrapFileSystemError("read service directory", dir, err)
	}
	var versions []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if ok, _ := afero.Exists(l.fs, path.Join(dir, entry.Name(), ServiceModelFile)); ok {
			versions = append(versions, entry.Name())
		}
	}
	if len(versions) == 0 {
		return "", errors.NewModelError(service, "", "no "+ServiceModelFile+" found")
	}
	sort.Strings(versions)
	return versions[len(versions)-1], nil
}

// LoadService decodes the newest service model. Models are read once per run.
func (l *Loader) LoadService(service string) (*ServiceModel, error) {
	return l.models.GetOrCompute(service, func() (*ServiceModel, error) {
		model := &ServiceModel{}
		found, err := l.decode(service, ServiceModelFile, model)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errors.NewModelError(service, "", ServiceModelFile+" is missing")
		}
		return model, nil
	})
}

// LoadPaginators decodes pagination configs; a missing file is empty
func (l *Loader) LoadPaginators(service string) (*PaginatorModel, error) {
	model := &PaginatorModel{}
	if _, err := l.decode(service, PaginatorsFile, model); err != nil {
		return nil, err
	}
	return model, nil
}

// LoadWaiters decodes waiter configs; a missing file is empty
func (l *Loader) LoadWaiters(service string) (*WaiterModel, error) {
	model := &WaiterModel{}
	if _, err := l.decode(service, WaitersFile, model); err != nil {
		return nil, err
	}
	return model, nil
}

// DiscoverServiceNames resolves every model directory to a ServiceName.
// Unknown services are added to the catalog with a class name derived
// from the model's serviceId.
func (l *Loader) DiscoverServiceNames(catalog *models.ServiceNameCatalog) ([]*models.ServiceName, error) {
	names, err := l.ServiceNames()
	if err != nil {
		return nil, err
	}
	result := make([]*models.ServiceName, 0, len(names))
	for _, name := range names {
		if sn, ok := catalog.Get(name); ok {
			result = append(result, sn)
			continue
		}
		model, err := l.LoadService(name)
		if err != nil {
			return nil, err
		}
		className := utils.ToClassName(model.Metadata.ServiceID)
		if className == "" {
			className = utils.ToClassName(name)
		}
		result = append(result, catalog.Add(name, className))
	}
	return result, nil
}

func (l *Loader) decode(service, fileName string, target any) (bool, error) {
	apiVersion, err := l.APIVersion(service)
	if err != nil {
		return false, err
	}
	filePath := path.Join(l.root, service, apiVersion, fileName)
	data, err := afero.ReadFile(l.fs, filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.WrapFileSystemError("read", filePath, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		modelErr := errors.NewModelError(service, "", "invalid "+fileName)
		modelErr.Cause = err
		return false, modelErr
	}
	return true, nil
}

func stringList(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	default:
		return nil
	}
}

// sortedKeys returns the keys of m sorted
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
