package deps

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/authstarter/nextjs-auth-starter/internal/pkgjson"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ManifestFile is the dependency manifest's name in the template tree.
const ManifestFile = "dependencies.json"

// ErrNoManifest is returned when the template tree has no dependency manifest.
var ErrNoManifest = errors.New("dependencies.json not found")

//go:embed schema/dependencies.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// distTag matches npm dist-tags such as "latest" or "canary".
var distTag = regexp.MustCompile(`^[a-z][a-z0-9._-]*$`)

// specProtocols are the non-registry specifiers npm accepts in place of a
// range. They are passed to the package manager unchecked.
var specProtocols = []string{
	"npm:", "workspace:", "file:", "link:", "portal:",
	"github:", "gitlab:", "bitbucket:", "gist:",
	"git:", "git+ssh:", "git+https:", "git+http:", "git+file:",
	"http:", "https:",
}

// Package is one dependency and its version range.
type Package struct {
	Name    string
	Version string
}

// Spec returns the name@version argument passed to the package manager.
func (p Package) Spec() string {
	return p.Name + "@" + p.Version
}

// Manifest lists packages in file order.
type Manifest struct {
	Dependencies    []Package
	DevDependencies []Package
}

// Names returns the package names in pkgs.
func Names(pkgs []Package) []string {
	out := make([]string, len(pkgs))
	for i, p := range pkgs {
		out[i] = p.Name
	}
	return out
}

// ValidationIssue is a single problem found in the manifest.
type ValidationIssue struct {
	Path    string // instance location, e.g. "/dependencies/next"
	Message string
}

// ValidationError reports every issue found in a manifest.
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		if issue.Path != "" {
			msgs[i] = issue.Path + ": " + issue.Message
		} else {
			msgs[i] = issue.Message
		}
	}
	return "invalid " + ManifestFile + ": " + strings.Join(msgs, "; ")
}

// Load reads and validates ManifestFile from the root of fsys.
func Load(fsys fs.FS) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, ManifestFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoManifest
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ManifestFile, err)
	}
	return Parse(data)
}

// Parse validates data against the manifest schema and decodes it.
func Parse(data []byte) (*Manifest, error) {
	issues, err := validate(data)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	doc, err := pkgjson.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestFile, err)
	}

	m := &Manifest{}
	if m.Dependencies, err = group(doc, "dependencies"); err != nil {
		return nil, err
	}
	if m.DevDependencies, err = group(doc, "devDependencies"); err != nil {
		return nil, err
	}

	var rangeIssues []ValidationIssue
	for _, g := range []struct {
		name string
		pkgs []Package
	}{{"dependencies", m.Dependencies}, {"devDependencies", m.DevDependencies}} {
		for _, p := range g.pkgs {
			if !validRange(p.Version) {
				rangeIssues = append(rangeIssues, ValidationIssue{
					Path:    "/" + g.name + "/" + p.Name,
					Message: fmt.Sprintf("%q is not a semver range, dist-tag or protocol specifier", p.Version),
				})
			}
		}
	}
	if len(rangeIssues) > 0 {
		return nil, &ValidationError{Issues: rangeIssues}
	}

	return m, nil
}

func group(doc *pkgjson.Object, key string) ([]Package, error) {
	obj, ok, err := doc.Object(key)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestFile, err)
	}
	if !ok {
		return nil, nil
	}
	pkgs := make([]Package, 0, obj.Len())
	for _, name := range obj.Keys() {
		v, _ := obj.String(name)
		pkgs = append(pkgs, Package{Name: name, Version: v})
	}
	return pkgs, nil
}

func validRange(v string) bool {
	if _, err := semver.NewConstraint(v); err == nil {
		return true
	}
	for _, prefix := range specProtocols {
		if strings.HasPrefix(v, prefix) && len(v) > len(prefix) {
			return true
		}
	}
	return distTag.MatchString(v)
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("dependencies.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("dependencies.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// validate returns schema issues for data. The error return is for
// malformed JSON and schema compilation failures.
func validate(data []byte) ([]ValidationIssue, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("parsing %s: invalid JSON", ManifestFile)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestFile, err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}
	return extractIssues(ve), nil
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectValidationIssues(ve, &issues)
	if len(issues) == 0 {
		return []ValidationIssue{{Message: ve.Error()}}
	}
	return issues
}

func collectValidationIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) == 0 {
		path := ""
		if len(ve.InstanceLocation) > 0 {
			path = "/" + strings.Join(ve.InstanceLocation, "/")
		}

		keyword := ""
		msg := ""
		if ve.ErrorKind != nil {
			if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
				keyword = kw[len(kw)-1]
			}
			msg = ve.ErrorKind.LocalizedString(printer)
		}
		if keyword == "allOf" || keyword == "$ref" || keyword == "" {
			return
		}

		*issues = append(*issues, ValidationIssue{Path: path, Message: msg})
		return
	}

	for _, cause := range ve.Causes {
		collectValidationIssues(cause, issues)
	}
}
