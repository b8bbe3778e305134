// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"reflect"
	"strings"
	"sync"
	"time"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cast"

	"rivaas.dev/apiversion/config/codec"
	"rivaas.dev/apiversion/config/source"
)

// DefaultEnvPrefix is the prefix read by WithEnv("").
const DefaultEnvPrefix = "APIVERSION_"

// Option configures a [Loader].
type Option func(l *Loader) error

// Loader reads [Settings] from an ordered list of sources.
//
// Each Load merges the sources in order, checks the merged document against
// the settings JSON Schema and any custom validators, binds it to a fresh
// Settings value, applies `default` tags and validates the result. State is
// only replaced when every step succeeds.
//
// Loader is safe for concurrent use.
type Loader struct {
	sources    []Source
	schema     *jsonschema.Schema
	validators []func(map[string]any) error

	mu       sync.RWMutex
	values   map[string]any
	settings *Settings
}

// ═══════════════════════════════════════════════════════════════════════════════
// Sources
// ═══════════════════════════════════════════════════════════════════════════════

// WithSource appends a custom source.
func WithSource(src Source) Option {
	return func(l *Loader) error {
		if src == nil {
			return ErrNilSource
		}
		l.sources = append(l.sources, src)

		return nil
	}
}

// WithFile reads a settings file whose format follows its extension
// (.yaml, .yml, .json, .toml). $VAR and ${VAR} in path are expanded.
//
// Example:
//
//	loader := config.MustNew(
//	    config.WithFile("apiversion.yaml"),
//	    config.WithEnv("APIVERSION_"),
//	)
func WithFile(path string) Option {
	return func(l *Loader) error {
		path = os.ExpandEnv(path)
		format, err := detectFormat(path)
		if err != nil {
			return NewError("file", "detect-format", err)
		}

		return WithFileAs(path, format)(l)
	}
}

// WithFileAs reads a settings file with an explicit codec.
func WithFileAs(path string, codecType codec.Type) Option {
	return func(l *Loader) error {
		decoder, err := codec.GetDecoder(codecType)
		if err != nil {
			return NewError("file", "get-decoder", err)
		}
		l.sources = append(l.sources, source.NewFile(os.ExpandEnv(path), decoder))

		return nil
	}
}

// WithContent decodes an in-memory settings document.
func WithContent(data []byte, codecType codec.Type) Option {
	return func(l *Loader) error {
		decoder, err := codec.GetDecoder(codecType)
		if err != nil {
			return NewError("content", "get-decoder", err)
		}
		l.sources = append(l.sources, source.NewContent(data, decoder))

		return nil
	}
}

// WithEnv reads environment variables starting with prefix.
// An empty prefix means [DefaultEnvPrefix].
func WithEnv(prefix string) Option {
	return func(l *Loader) error {
		if prefix == "" {
			prefix = DefaultEnvPrefix
		}
		l.sources = append(l.sources, source.NewEnv(prefix))

		return nil
	}
}

// WithConsul reads a settings document from a Consul key. The format
// follows the key's extension. The option does nothing when
// CONSUL_HTTP_ADDR is unset, so the same option list works locally.
func WithConsul(key string) Option {
	return func(l *Loader) error {
		key = os.ExpandEnv(key)
		format, err := detectFormat(key)
		if err != nil {
			return NewError("consul", "detect-format", err)
		}

		return WithConsulAs(key, format)(l)
	}
}

// WithConsulAs is like [WithConsul] with an explicit codec. Caster codecs
// read a single scalar key.
func WithConsulAs(key string, codecType codec.Type) Option {
	return func(l *Loader) error {
		if os.Getenv("CONSUL_HTTP_ADDR") == "" {
			return nil
		}
		decoder, err := codec.GetDecoder(codecType)
		if err != nil {
			return NewError("consul", "get-decoder", err)
		}
		src, err := source.NewConsul(os.ExpandEnv(key), decoder, nil)
		if err != nil {
			return NewError("consul", "create-client", err)
		}
		l.sources = append(l.sources, src)

		return nil
	}
}

// WithConsulTree reads every key below prefix, one settings key per
// Consul key. Like [WithConsul] it requires CONSUL_HTTP_ADDR.
func WithConsulTree(prefix string) Option {
	return func(l *Loader) error {
		if os.Getenv("CONSUL_HTTP_ADDR") == "" {
			return nil
		}
		src, err := source.NewConsulTree(os.ExpandEnv(prefix), nil)
		if err != nil {
			return NewError("consul", "create-client", err)
		}
		l.sources = append(l.sources, src)

		return nil
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// Validation
// ═══════════════════════════════════════════════════════════════════════════════

// WithJSONSchema replaces the built-in settings schema.
func WithJSONSchema(schema []byte) Option {
	return func(l *Loader) error {
		compiled, err := compileSchema("custom.schema.json", schema)
		if err != nil {
			return NewError("json-schema", "compile", err)
		}
		l.schema = compiled

		return nil
	}
}

// WithValidator adds a check that runs on the merged document before binding.
func WithValidator(fn func(map[string]any) error) Option {
	return func(l *Loader) error {
		if fn == nil {
			return ErrNilValidator
		}
		l.validators = append(l.validators, fn)

		return nil
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// Loader
// ═══════════════════════════════════════════════════════════════════════════════

// New returns a loader. Option errors are joined.
func New(opts ...Option) (*Loader, error) {
	schema, err := builtinSchema()
	if err != nil {
		return nil, NewError("json-schema", "compile", err)
	}
	l := &Loader{schema: schema}

	var errs error
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(l); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}

	return l, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Loader {
	l, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}

	return l
}

// Load reads all sources and returns the validated settings.
//
// Errors are *[Error] values naming the failing step.
func (l *Loader) Load(ctx context.Context) (*Settings, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	values, err := l.merge(ctx)
	if err != nil {
		return nil, err
	}

	if l.schema != nil {
		doc, err := jsonDocument(values)
		if err != nil {
			return nil, NewError("json-schema", "validate", err)
		}
		if err = l.schema.Validate(doc); err != nil {
			return nil, NewError("json-schema", "validate", err)
		}
	}

	for i, fn := range l.validators {
		if err := runValidator(fn, values); err != nil {
			return nil, NewError(fmt.Sprintf("validator[%d]", i), "validate", err)
		}
	}

	settings := &Settings{}
	if err := bind(values, settings); err != nil {
		return nil, NewError("settings", "bind", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.values, l.settings = values, settings
	l.mu.Unlock()

	return settings, nil
}

// MustLoad is like [Loader.Load] but panics on error.
func (l *Loader) MustLoad(ctx context.Context) *Settings {
	s, err := l.Load(ctx)
	if err != nil {
		panic(err)
	}

	return s
}

// Settings returns the settings of the latest successful Load.
func (l *Loader) Settings() (*Settings, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.settings == nil {
		return nil, ErrNotLoaded
	}

	return l.settings, nil
}

// Values returns a copy of the merged document of the latest successful Load.
func (l *Loader) Values() map[string]any {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return maps.Clone(l.values)
}

// Get returns the value at a dotted key such as "logging.level", or nil.
func (l *Loader) Get(key string) any {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var node any = l.values
	for _, part := range strings.Split(strings.ToLower(key), ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node = m[part]
	}

	return node
}

// String returns the value at key converted to a string.
func (l *Loader) String(key string) string { return cast.ToString(l.Get(key)) }

// Bool returns the value at key converted to a bool.
func (l *Loader) Bool(key string) bool { return cast.ToBool(l.Get(key)) }

// Duration returns the value at key converted to a duration.
func (l *Loader) Duration(key string) time.Duration { return cast.ToDuration(l.Get(key)) }

func (l *Loader) merge(ctx context.Context) (map[string]any, error) {
	merged := make(map[string]any)
	for i, src := range l.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, err := src.Load(ctx)
		if err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "load", err)
		}
		if err = mergo.Map(&merged, lowerKeys(doc), mergo.WithOverride); err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "merge", err)
		}
	}

	return merged, nil
}

// lowerKeys lower-cases map keys recursively, including maps inside lists.
func lowerKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = lowerValue(v)
	}

	return out
}

func lowerValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return lowerKeys(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = lowerValue(item)
		}
		return out
	default:
		return v
	}
}

func runValidator(fn func(map[string]any) error, values map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("validator panic: %v", r)
		}
	}()

	return fn(maps.Clone(values))
}

// jsonDocument converts decoded YAML/TOML values to the JSON data model the
// schema validator expects.
func jsonDocument(values map[string]any) (any, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}

	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

// ═══════════════════════════════════════════════════════════════════════════════
// Binding
// ═══════════════════════════════════════════════════════════════════════════════

func bind(values map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		Result:           target,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err = decoder.Decode(values); err != nil {
		return err
	}

	return applyDefaults(target)
}

// applyDefaults sets zero-valued fields from their `default` tag, walking
// nested structs.
func applyDefaults(target any) error {
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Pointer || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("defaults target must be a pointer to a struct, got %T", target)
	}

	return setDefaults(val.Elem())
}

func setDefaults(val reflect.Value) error {
	typ := val.Type()
	for i := range val.NumField() {
		field, meta := val.Field(i), typ.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeFor[time.Time]() {
			if err := setDefaults(field); err != nil {
				return err
			}
			continue
		}

		def, ok := meta.Tag.Lookup("default")
		if !ok || !field.IsZero() {
			continue
		}
		if err := setDefault(field, def); err != nil {
			return fmt.Errorf("default for %s: %w", meta.Name, err)
		}
	}

	return nil
}

func setDefault(field reflect.Value, def string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(def)
	case reflect.Bool:
		b, err := cast.ToBoolE(def)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int64:
		if field.Type() == reflect.TypeFor[time.Duration]() {
			d, err := cast.ToDurationE(def)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}
		fallthrough
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		n, err := cast.ToInt64E(def)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(def)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported default for %s", field.Type())
		}
		field.Set(reflect.ValueOf(strings.Split(def, ",")))
	default:
		return fmt.Errorf("unsupported default for %s", field.Type())
	}

	return nil
}
