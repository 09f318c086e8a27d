package statement

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Column selects a CSV field either by zero-based index or by header name.
type Column struct {
	Index int
	Name  string
	set   bool
}

// Index selects the field at position i.
func Index(i int) Column {
	return Column{Index: i, set: true}
}

// Named selects the field whose header is name. The statement must have a
// header line.
func Named(name string) Column {
	return Column{Name: name, set: true}
}

// IsSet reports whether the column was configured.
func (c Column) IsSet() bool {
	return c.set
}

func (c Column) String() string {
	if c.Name != "" {
		return strconv.Quote(c.Name)
	}
	return strconv.Itoa(c.Index)
}

// UnmarshalYAML accepts an integer index or a header name.
func (c *Column) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: column must be an index or a header name", node.Line)
	}
	if node.ShortTag() == "!!int" {
		i, err := strconv.Atoi(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*c = Index(i)
		return nil
	}
	*c = Named(node.Value)
	return nil
}

// MarshalYAML writes the column back as an index or a name.
func (c Column) MarshalYAML() (interface{}, error) {
	if c.Name != "" {
		return c.Name, nil
	}
	return c.Index, nil
}

// lookup resolves the column to a field index.
func (c Column) lookup(header []string) (int, error) {
	if c.Name == "" {
		return c.Index, nil
	}
	if header == nil {
		return 0, fmt.Errorf("can't look up the column index for %q without a header", c.Name)
	}
	for i, field := range header {
		if field == c.Name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("can't get column index for unknown header field %q", c.Name)
}
