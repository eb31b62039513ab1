// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/invowk/modrepo/pkg/cueutil"
)

// schemaFields lists the regular fields of a schema definition, mapped to
// whether they are optional. Fields pinned to _|_ exist only to forbid a
// name and are skipped.
func schemaFields(t *testing.T, definition string) map[string]bool {
	t.Helper()

	schema := cuecontext.New().CompileString(configSchema)
	if err := schema.Err(); err != nil {
		t.Fatalf("compile schema: %v", err)
	}
	def := schema.LookupPath(cue.ParsePath(definition))
	if err := def.Err(); err != nil {
		t.Fatalf("lookup %s: %v", definition, err)
	}

	iter, err := def.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("fields of %s: %v", definition, err)
	}

	fields := make(map[string]bool)
	for iter.Next() {
		sel := iter.Selector()
		if sel.LabelType().IsHidden() || sel.IsDefinition() {
			continue
		}
		if v := iter.Value(); v.Kind() == cue.BottomKind && v.Err() != nil &&
			strings.Contains(v.Err().Error(), "explicit error (_|_ literal)") {
			continue
		}
		fields[strings.TrimSuffix(sel.String(), "?")] = iter.IsOptional()
	}
	return fields
}

// jsonFields lists the json tag names of a struct's exported fields, mapped
// to whether they carry omitempty.
func jsonFields(typ reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		fields[name] = strings.Contains(opts, "omitempty")
	}
	return fields
}

func TestSchemaMatchesStructs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		definition string
		typ        reflect.Type
	}{
		{"#Config", reflect.TypeFor[Config]()},
		{"#UIConfig", reflect.TypeFor[UIConfig]()},
		{"#LogConfig", reflect.TypeFor[LogConfig]()},
	}

	for _, tt := range tests {
		t.Run(tt.definition, func(t *testing.T) {
			t.Parallel()

			cueFields := schemaFields(t, tt.definition)
			goFields := jsonFields(tt.typ)

			for name, optional := range cueFields {
				omitempty, ok := goFields[name]
				if !ok {
					t.Errorf("schema field %q has no json tag on %s", name, tt.typ.Name())
					continue
				}
				if optional && !omitempty {
					t.Logf("schema field %q is optional but %s.%s lacks omitempty", name, tt.typ.Name(), name)
				}
			}
			for name := range goFields {
				if _, ok := cueFields[name]; !ok {
					t.Errorf("json tag %q on %s is missing from %s", name, tt.typ.Name(), tt.definition)
				}
			}
		})
	}
}

func TestSchemaConstraints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"empty document", ``, false},
		{"plain and archive repositories", `repositories: ["/srv/modules", "archive:/srv/app.zip!lib"]`, false},
		{"builtin", `builtin: "/usr/share/modrepo/core"`, false},
		{"single character locator", `repositories: ["x"]`, false},
		{"empty repository", `repositories: [""]`, true},
		{"padded repository", `repositories: [" /srv/modules"]`, true},
		{"blank builtin", `builtin: "   "`, true},
		{"numeric repository", `repositories: [42]`, true},
		{"known color scheme", `ui: color_scheme: "dark"`, false},
		{"unknown color scheme", `ui: color_scheme: "solarized"`, true},
		{"string verbose", `ui: verbose: "yes"`, true},
		{"known log level", `log: level: "debug"`, false},
		{"unknown log level", `log: level: "trace"`, true},
		{"unknown top-level field", `search_path: ["/srv"]`, true},
		{"unknown nested field", `ui: interactive: true`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := cueutil.Decode[Config](configCUE, []byte(tt.doc), cueutil.WithFilename("config.cue"))
			if (err != nil) != tt.wantErr {
				t.Errorf("Decode(%q) error = %v, wantErr %v", tt.doc, err, tt.wantErr)
			}
		})
	}
}

func TestGenerateCUE_ValidatesAgainstSchema(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Builtin = "/usr/share/modrepo/core"
	cfg.Repositories = []RepositoryLocator{"/srv/modules", `C:\modules`, "archive:/srv/app.zip!lib"}
	cfg.UI = UIConfig{ColorScheme: ColorSchemeLight, Verbose: true}
	cfg.Log.Level = LogLevelWarn

	for name, c := range map[string]*Config{"custom": cfg, "default": DefaultConfig()} {
		res, err := cueutil.Decode[Config](configCUE, []byte(GenerateCUE(c)))
		if err != nil {
			t.Fatalf("%s: generated CUE does not validate: %v\n%s", name, err, GenerateCUE(c))
		}
		if !slices.Equal(res.Value.Repositories, c.Repositories) {
			t.Errorf("%s: repositories = %v, want %v", name, res.Value.Repositories, c.Repositories)
		}
	}
}
