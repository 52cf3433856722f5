package trace

import (
	"fmt"

	"github.com/pelletier/go-toml"
)

// LoadLayouts returns the default layouts, overridden and extended by the
// layouts defined in the TOML file at path. Example:
//
//	[bursts]
//	extends = "bursts-v1"    # start from another layout, defaults to the same name
//
//	[[bursts.metric]]
//	label = "Tb"
//	column = 11
//
//	[sched-wakeup]
//	key-column = 1
//	key-name = "Task"
//	time = "Time"
//	[[sched-wakeup.metric]]
//	label = "Time"
//	column = 2
//	[[sched-wakeup.metric]]
//	label = "Wakeup"
//	name = "Wakeup latency [ns]"
//	column = 3
func LoadLayouts(path string) (Layouts, error) {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layouts file %q: %w", path, err)
	}
	return mergeLayouts(tree, DefaultLayouts())
}

// ParseLayouts is like LoadLayouts but reads the TOML document from content
func ParseLayouts(content string) (Layouts, error) {
	tree, err := toml.Load(content)
	if err != nil {
		return nil, err
	}
	return mergeLayouts(tree, DefaultLayouts())
}

func mergeLayouts(tree *toml.Tree, base Layouts) (Layouts, error) {
	out := make(Layouts, len(base))
	for name, l := range base {
		out[name] = l
	}

	for _, name := range tree.Keys() {
		sub, ok := tree.Get(name).(*toml.Tree)
		if !ok {
			return nil, fmt.Errorf("layout %q: expected a table", name)
		}
		l, err := layoutFromTree(name, sub, out)
		if err != nil {
			return nil, err
		}
		if err := l.Validate(); err != nil {
			return nil, err
		}
		out[name] = l
	}
	return out, nil
}

func layoutFromTree(name string, t *toml.Tree, known Layouts) (Layout, error) {
	parent := name
	if t.Has("extends") {
		s, ok := t.Get("extends").(string)
		if !ok {
			return Layout{}, fmt.Errorf("layout %q: extends must be a string", name)
		}
		parent = s
	}

	l := Layout{
		Name:      name,
		KeyColumn: NoKey,
		TimeLabel: "Time",
	}
	if base, ok := known[parent]; ok {
		l = base.clone()
		l.Name = name
	} else if parent != name {
		return Layout{}, fmt.Errorf("layout %q: extends unknown layout %q", name, parent)
	}

	var err error
	if l.Tag, err = stringOr(t, "tag", l.Tag); err != nil {
		return Layout{}, fmt.Errorf("layout %q: %w", name, err)
	}
	if l.KeyName, err = stringOr(t, "key-name", l.KeyName); err != nil {
		return Layout{}, fmt.Errorf("layout %q: %w", name, err)
	}
	if l.TimeLabel, err = stringOr(t, "time", l.TimeLabel); err != nil {
		return Layout{}, fmt.Errorf("layout %q: %w", name, err)
	}
	if l.KeyColumn, err = intOr(t, "key-column", l.KeyColumn); err != nil {
		return Layout{}, fmt.Errorf("layout %q: %w", name, err)
	}

	if !t.Has("metric") {
		return l, nil
	}
	metrics, ok := t.Get("metric").([]*toml.Tree)
	if !ok {
		return Layout{}, fmt.Errorf("layout %q: metric must be an array of tables", name)
	}
	for i, mt := range metrics {
		label, err := stringOr(mt, "label", "")
		if err != nil || label == "" {
			return Layout{}, fmt.Errorf("layout %q: metric %d: missing label", name, i)
		}
		m := Metric{Label: label, Name: label}
		idx := l.Index(label)
		if idx >= 0 {
			m = l.Metrics[idx]
		}
		if m.Name, err = stringOr(mt, "name", m.Name); err != nil {
			return Layout{}, fmt.Errorf("layout %q: metric %q: %w", name, label, err)
		}
		if m.Description, err = stringOr(mt, "description", m.Description); err != nil {
			return Layout{}, fmt.Errorf("layout %q: metric %q: %w", name, label, err)
		}
		if m.Column, err = intOr(mt, "column", m.Column); err != nil {
			return Layout{}, fmt.Errorf("layout %q: metric %q: %w", name, label, err)
		}
		if idx >= 0 {
			l.Metrics[idx] = m
		} else {
			l.Metrics = append(l.Metrics, m)
		}
	}
	return l, nil
}

func stringOr(t *toml.Tree, key, def string) (string, error) {
	if !t.Has(key) {
		return def, nil
	}
	s, ok := t.Get(key).(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return s, nil
}

func intOr(t *toml.Tree, key string, def int) (int, error) {
	if !t.Has(key) {
		return def, nil
	}
	i, ok := t.Get(key).(int64)
	if !ok {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return int(i), nil
}
