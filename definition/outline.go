package definition

import (
	"formbind/naming"
)

// EntryKind tells what an outline entry stands for.
type EntryKind string

const (
	EntryForm   EntryKind = "form"
	EntryNested EntryKind = "nested"
	EntryList   EntryKind = "list"
	EntryField  EntryKind = "field"
)

// Entry is one line of a form outline.
type Entry struct {
	Depth    int
	Kind     EntryKind
	Name     string
	LabelKey string
	Type     string
	Auto     bool
}

// Outline lists the mappings and fields of def as a depth-first tree with
// the full names they receive. Rows of a list are shown as row 0.
// Fields derived from the data type are not listed; their mapping has Auto set.
func Outline(def *Form) []Entry {
	var out []Entry

	outline(&out, def, "", 0, EntryForm)

	return out
}

func outline(out *[]Entry, def *Form, parent string, depth int, kind EntryKind) {
	path := naming.Join(parent, def.Path)

	*out = append(*out, Entry{
		Depth:    depth,
		Kind:     kind,
		Name:     path,
		LabelKey: naming.LabelKey(path),
		Type:     def.Type,
		Auto:     def.Auto,
	})

	// children of a list live in row 0
	prefix := path
	if kind == EntryList {
		if row, err := naming.WithIndex(path, 0, path); err == nil {
			prefix = row
		}
	}

	for _, fd := range def.Fields {
		name := naming.Join(prefix, fd.Name)
		*out = append(*out, Entry{
			Depth:    depth + 1,
			Kind:     EntryField,
			Name:     name,
			LabelKey: naming.LabelKey(name),
			Type:     fd.Type,
		})
	}

	for i := range def.Nested {
		outline(out, &def.Nested[i], prefix, depth+1, EntryNested)
	}

	for i := range def.Lists {
		outline(out, &def.Lists[i], prefix, depth+1, EntryList)
	}

	if def.Secured {
		name := naming.Join(prefix, naming.AuthTokenField)
		*out = append(*out, Entry{
			Depth:    depth + 1,
			Kind:     EntryField,
			Name:     name,
			LabelKey: naming.LabelKey(name),
			Type:     "hidden",
		})
	}
}
