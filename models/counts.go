package models

import (
	"bytes"
	"encoding/json"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Counts is a value -> occurrence mapping that remembers the order in which
// values were first seen. Iteration via Keys always follows that order.
type Counts struct {
	keys   []string
	counts map[string]int
}

// NewCounts returns an empty Counts.
func NewCounts() *Counts {
	return &Counts{counts: make(map[string]int)}
}

// Add increments value by n, registering it on first sight.
func (c *Counts) Add(value string, n int) {
	if _, seen := c.counts[value]; !seen {
		c.keys = append(c.keys, value)
	}
	c.counts[value] += n
}

// Get returns the count for value and whether it was ever added.
func (c *Counts) Get(value string) (int, bool) {
	if c == nil {
		return 0, false
	}
	n, ok := c.counts[value]
	return n, ok
}

// Keys returns the values in first-appearance order.
func (c *Counts) Keys() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the number of distinct values.
func (c *Counts) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Total returns the sum of all counts.
func (c *Counts) Total() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// MarshalJSON writes an object whose members follow insertion order.
func (c *Counts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(c.counts[k]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, keeping member order.
func (c *Counts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	*c = Counts{counts: make(map[string]int)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return err
		}
		c.Add(tok.(string), n)
	}
	_, err := dec.Token()
	return err
}

// MarshalYAML emits a mapping node in insertion order.
func (c *Counts) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range c.Keys() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(c.counts[k])},
		)
	}
	return node, nil
}
