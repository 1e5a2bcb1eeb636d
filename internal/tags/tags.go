// Package tags renders Go struct tags into display strings.
//
// A struct tag such as
//
//	db:"id,primaryKey" rel:"many_to_one,mapped_by:Books"
//
// holds one quoted value per key. Within a value the first comma-separated
// item is the value proper; the remaining items are bare flags or
// option:argument pairs. The keys above render as
//
//	@db("id", primaryKey)
//	@rel("many_to_one", mapped_by="Books")
package tags

import (
	"slices"
	"strconv"
	"strings"
)

// Arg is one option:argument item of a tag value.
type Arg struct {
	Name  string
	Value string
}

// Options is a parsed tag value.
type Options struct {
	Value string
	Flags []string
	Args  []Arg
}

// Parse splits one tag value into its value, flags and arguments. Items with
// an empty option name are dropped.
func Parse(value string) Options {
	var o Options
	items := strings.Split(value, ",")
	o.Value = strings.TrimSpace(items[0])
	for _, item := range items[1:] {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, arg, ok := strings.Cut(item, ":")
		if !ok {
			o.Flags = append(o.Flags, item)
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		o.Args = append(o.Args, Arg{Name: name, Value: strings.TrimSpace(arg)})
	}
	return o
}

// Has reports whether flag is set.
func (o Options) Has(flag string) bool {
	return slices.Contains(o.Flags, flag)
}

// Arg returns the argument of the named option.
func (o Options) Arg(name string) (string, bool) {
	for _, a := range o.Args {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Skip reports whether the value marks the field as not persisted.
func (o Options) Skip() bool { return o.Value == "-" }

// Pair is one key/value entry of a raw struct tag.
type Pair struct {
	Key   string
	Value string
}

// Split returns the well-formed key:"value" pairs of a raw struct tag in
// order. A malformed entry is skipped up to the next space and scanning
// resumes from there.
func Split(tag string) []Pair {
	var pairs []Pair
	for tag != "" {
		i := 0
		for i < len(tag) && tag[i] == ' ' {
			i++
		}
		tag = tag[i:]
		if tag == "" {
			break
		}

		i = 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}
		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			tag = skipEntry(tag)
			continue
		}
		key := tag[:i]
		tag = tag[i+1:]

		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(tag) {
			break
		}
		quoted := tag[:i+1]
		tag = tag[i+1:]
		value, err := strconv.Unquote(quoted)
		if err != nil {
			continue
		}
		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	return pairs
}

func skipEntry(tag string) string {
	if i := strings.IndexByte(tag, ' '); i >= 0 {
		return tag[i:]
	}
	return ""
}

// Renderer turns struct tags into display strings for a configured set of
// keys.
type Renderer struct {
	Keys    []string // tag keys to render, e.g. "db", "rel"
	Exclude []string // option names left out of the rendering
}

// DefaultKeys are the persistence tag keys rendered when none are configured.
var DefaultKeys = []string{"db", "rel", "orm"}

// NewRenderer returns a renderer for keys, falling back to DefaultKeys.
func NewRenderer(keys, exclude []string) *Renderer {
	if len(keys) == 0 {
		keys = DefaultKeys
	}
	return &Renderer{Keys: keys, Exclude: exclude}
}

// Render returns the rendered entries of every configured key found in the
// raw tag, sorted.
func (r *Renderer) Render(raw string) []string {
	var out []string
	for _, p := range Split(raw) {
		if !slices.Contains(r.Keys, p.Key) {
			continue
		}
		out = append(out, r.Format(p.Key, Parse(p.Value)))
	}
	slices.Sort(out)
	return out
}

// Format renders one parsed tag value under key.
func (r *Renderer) Format(key string, o Options) string {
	items := make([]string, 0, 1+len(o.Flags)+len(o.Args))
	switch o.Value {
	case "":
	case "-":
		items = append(items, "-")
	default:
		items = append(items, strconv.Quote(o.Value))
	}
	for _, f := range o.Flags {
		if slices.Contains(r.Exclude, f) {
			continue
		}
		items = append(items, f)
	}
	for _, a := range o.Args {
		if slices.Contains(r.Exclude, a.Name) {
			continue
		}
		items = append(items, a.Name+"="+strconv.Quote(a.Value))
	}
	if len(items) == 0 {
		return "@" + key
	}
	return "@" + key + "(" + strings.Join(items, ", ") + ")"
}
