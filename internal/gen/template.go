package gen

import (
	"go/token"
	"path"
	"strconv"
	"text/template"

	"mapext/internal/common"
	"mapext/internal/model"
)

// templateData holds all data needed for the extensions template.
type templateData struct {
	Header       string
	PackageName  string
	ImportGroups [][]importSpec
	Container    string
	Source       typeRef
	Adapt        string
	Methods      []methodData
}

// methodData describes one generated conversion method.
type methodData struct {
	Name           string
	Destination    typeRef
	SourceFQN      string
	DestinationFQN string
}

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

// String returns the import line without indentation.
func (s importSpec) String() string {
	if s.Alias != "" {
		return s.Alias + " " + strconv.Quote(s.Path)
	}

	return strconv.Quote(s.Path)
}

// typeRef is a reference to a type with optional package qualifier.
type typeRef struct {
	Package string // file-scope package name, empty for the file's own package
	Name    string
}

// String returns the qualified type (e.g., "dto.PersonDto").
func (t typeRef) String() string {
	if t.Package == "" {
		return t.Name
	}

	return t.Package + "." + t.Name
}

// importTable assigns file-scope names to the packages a file imports.
type importTable struct {
	self     string
	pkgNames map[string]string // import path -> declared package name
	names    map[string]string // import path -> name used in the file
	taken    map[string]bool
}

func newImportTable(self string, reserved ...string) *importTable {
	t := &importTable{
		self:     self,
		pkgNames: make(map[string]string),
		names:    make(map[string]string),
		taken:    make(map[string]bool),
	}

	for _, r := range reserved {
		t.taken[r] = true
	}

	return t
}

// add assigns a name to pkgPath. Names clashing with an earlier one get a
// numeric suffix starting at 2. The alias is only spelled out when the name
// differs from the last path element.
func (t *importTable) add(pkgPath string) (importSpec, bool) {
	if pkgPath == "" || pkgPath == t.self {
		return importSpec{}, false
	}

	if _, ok := t.names[pkgPath]; ok {
		return importSpec{}, false
	}

	base := t.pkgNames[pkgPath]
	if base == "" {
		base = packageNameOf(pkgPath)
	}

	name := base
	for i := 2; t.taken[name]; i++ {
		name = base + strconv.Itoa(i)
	}

	t.taken[name] = true
	t.names[pkgPath] = name

	spec := importSpec{Path: pkgPath}
	if name != path.Base(pkgPath) {
		spec.Alias = name
	}

	return spec, true
}

func (t *importTable) ref(id model.TypeIdentity) typeRef {
	if id.Namespace == "" || id.Namespace == t.self {
		return typeRef{Name: id.Name}
	}

	return typeRef{Package: t.names[id.Namespace], Name: id.Name}
}

// packageNameOf guesses a package name from an import path.
func packageNameOf(pkgPath string) string {
	name := common.PkgAlias(pkgPath)
	if !token.IsIdentifier(name) {
		return "pkg"
	}

	return name
}

func containerName(source model.TypeIdentity) string {
	return source.Name + "Extensions"
}

// buildTemplateData resolves import names and type references for a group.
// The runtime is imported first; the remaining required imports follow in
// sorted order, skipping the group's own package.
func (g *Generator) buildTemplateData(group model.PerSourceGroup) *templateData {
	self := group.Source.Namespace
	container := containerName(group.Source)

	reserved := []string{container, group.Source.Name}

	for dest := range group.Destinations.Values() {
		if dest.Namespace == self {
			reserved = append(reserved, dest.Name)
		}
	}

	table := newImportTable(self, reserved...)
	table.pkgNames[g.config.RuntimePackage] = g.config.RuntimeName

	for dest := range group.Destinations.Values() {
		if dest.PkgName != "" {
			table.pkgNames[dest.Namespace] = dest.PkgName
		}
	}

	var groups [][]importSpec

	if spec, ok := table.add(g.config.RuntimePackage); ok {
		groups = append(groups, []importSpec{spec})
	}

	var rest []importSpec

	for imp := range group.RequiredImports.Values() {
		if spec, ok := table.add(imp); ok {
			rest = append(rest, spec)
		}
	}

	// Destinations are always referenced, even if a stale import list omits them.
	for dest := range group.Destinations.Values() {
		if spec, ok := table.add(dest.Namespace); ok {
			rest = append(rest, spec)
		}
	}

	if len(rest) > 0 {
		groups = append(groups, rest)
	}

	adapt := g.config.AdaptFunc
	if name := table.names[g.config.RuntimePackage]; name != "" {
		adapt = name + "." + adapt
	}

	data := &templateData{
		Header:       Header(g.config.Tool),
		PackageName:  filePackageName(group),
		ImportGroups: groups,
		Container:    container,
		Source:       typeRef{Name: group.Source.Name},
		Adapt:        adapt,
	}

	for dest := range group.Destinations.Values() {
		data.Methods = append(data.Methods, methodData{
			Name:           "To" + dest.Name,
			Destination:    table.ref(dest),
			SourceFQN:      group.Source.FQN,
			DestinationFQN: dest.FQN,
		})
	}

	return data
}

func filePackageName(group model.PerSourceGroup) string {
	if group.Source.PkgName != "" {
		return group.Source.PkgName
	}

	return packageNameOf(group.Namespace)
}

var fileTemplate = template.Must(template.New("extensions").Parse(`{{.Header}}

package {{.PackageName}}
{{if .ImportGroups}}
import ({{range $i, $group := .ImportGroups}}{{if $i}}
{{end}}{{range $group}}
	{{.}}{{end}}{{end}}
)
{{end}}
// {{.Container}} holds the generated conversions for {{.Source.Name}}.
type {{.Container}} struct{}
{{range .Methods}}
// {{.Name}} converts {{.SourceFQN}} to {{.DestinationFQN}}.
func ({{$.Container}}) {{.Name}}(source {{$.Source}}) {{.Destination}} {
	return {{$.Adapt}}[{{.Destination}}](source)
}
{{end}}`))
