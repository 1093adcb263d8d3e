package handlers

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/fidoquest/engine/vfs"
)

// World is the static scenery the handlers simulate: the BBS with its file
// area, the echomail that arrives on a poll, the traceroute map, the mail
// tool configurators and the files on the player's disk at boot.
type World struct {
	BBS   BBS               `yaml:"bbs"`
	Areas []Area            `yaml:"areas"`
	Trace Trace             `yaml:"trace"`
	Apps  map[string]App    `yaml:"apps"`
	Disk  map[string]string `yaml:"disk"`
}

// BBS is the one board the player can reach.
type BBS struct {
	Name      string   `yaml:"name"`
	Number    string   `yaml:"number"`
	Sysop     string   `yaml:"sysop"`
	Node      string   `yaml:"node"`
	Banner    []string `yaml:"banner"`
	Bulletins []string `yaml:"bulletins"`
	Files     []File   `yaml:"files"`
}

// File is a downloadable archive in the file area.
type File struct {
	Name        string `yaml:"name"`
	Item        string `yaml:"item"`
	Description string `yaml:"description"`
	Size        int    `yaml:"size"`
}

// Area is an echomail or netmail area.
type Area struct {
	Name     string    `yaml:"name"`
	Title    string    `yaml:"title"`
	Messages []Message `yaml:"messages"`
}

// Message is a single letter. It arrives with the first poll made during
// act Act or later.
type Message struct {
	From    string   `yaml:"from"`
	To      string   `yaml:"to"`
	Subject string   `yaml:"subject"`
	Body    []string `yaml:"body"`
	Act     int      `yaml:"act"`
}

// Trace describes the simulated route to the rogue node.
type Trace struct {
	Target string   `yaml:"target"`
	Hops   []string `yaml:"hops"`
	Found  []string `yaml:"found"`
}

// App is a configurable mail tool.
type App struct {
	Name     string            `yaml:"name"`
	Item     string            `yaml:"item"`
	File     string            `yaml:"file"`
	Header   string            `yaml:"header"`
	Defaults map[string]string `yaml:"defaults"`
	Fields   []Field           `yaml:"fields"`
	Flag     string            `yaml:"flag"`
}

// Field is one required config key and the pattern its value must match.
type Field struct {
	Key     string `yaml:"key"`
	Pattern string `yaml:"pattern"`
	Hint    string `yaml:"hint"`

	re *regexp.Regexp
}

// ParseWorld decodes and checks world YAML.
func ParseWorld(data []byte) (*World, error) {
	var w World
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parsing world: %w", err)
	}
	if w.BBS.Number == "" {
		return nil, fmt.Errorf("world: bbs.number is required")
	}
	for name, app := range w.Apps {
		if app.File == "" {
			return nil, fmt.Errorf("world: app %q: file is required", name)
		}
		for i := range app.Fields {
			f := &app.Fields[i]
			f.Key = strings.ToUpper(f.Key)
			if f.Pattern == "" {
				continue
			}
			re, err := regexp.Compile(f.Pattern)
			if err != nil {
				return nil, fmt.Errorf("world: app %q field %s: %w", name, f.Key, err)
			}
			f.re = re
		}
		w.Apps[name] = app
	}
	return &w, nil
}

// Boot fills fs with the initial disk contents.
func (w *World) Boot(fs *vfs.FS) error {
	paths := make([]string, 0, len(w.Disk))
	for p := range w.Disk {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if dir, _, ok := cutLast(p); ok && !strings.HasSuffix(dir, ":") {
			if err := fs.CreateDir(dir); err != nil {
				return fmt.Errorf("world: disk %s: %w", p, err)
			}
		}
		if strings.HasSuffix(p, `\`) {
			continue
		}
		if err := fs.WriteFile(p, w.Disk[p]); err != nil {
			return fmt.Errorf("world: disk %s: %w", p, err)
		}
	}
	return nil
}

// Area looks up an area by name, case-insensitively.
func (w *World) Area(name string) (Area, bool) {
	for _, a := range w.Areas {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Area{}, false
}

// Visible returns the messages of a that have arrived by act.
func (a Area) Visible(act int) []Message {
	var out []Message
	for _, m := range a.Messages {
		if m.Act <= act {
			out = append(out, m)
		}
	}
	return out
}

// Validate checks a parsed config against the app's fields and returns one
// diagnostic per problem.
func (app App) Validate(values map[string]string) []string {
	var problems []string
	for _, f := range app.Fields {
		v, ok := values[f.Key]
		switch {
		case !ok || v == "":
			problems = append(problems, fmt.Sprintf("%s is missing. %s", f.Key, f.Hint))
		case f.re != nil && !f.re.MatchString(v):
			problems = append(problems, fmt.Sprintf("%s %q is invalid. %s", f.Key, v, f.Hint))
		}
	}
	return problems
}
