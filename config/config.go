package config

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/classroom-sheets/classroom-sheets/allocator"
)

const (
	DefaultTitle = "Student Room Assignments"
	DefaultShare = "anyone"
)

// Config is the room assignment configuration. Rooms is either a list of {name, capacity}
// objects or a list of room names with a parallel Capacities list, e.g.
//
//	title: Lab exam
//	rooms: [EG106, EG306, ED202]
//	capacities: [18, 18, 20]
type Config struct {
	Title      string           `mapstructure:"title"`
	Share      string           `mapstructure:"share"`
	Rooms      []allocator.Room `mapstructure:"rooms"`
	Capacities []int            `mapstructure:"capacities"`

	// set when any room was given by name only, i.e. the parallel list form
	named bool
}

func NewConfig() *Config {
	return &Config{
		Title: DefaultTitle,
		Share: DefaultShare,
	}
}

func (c *Config) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer f.Close()

	return c.Read(f)
}

func (c *Config) Read(r io.Reader) error {
	m := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&m); err != nil && err != io.EOF {
		return err
	}

	named := false
	hook := func(from reflect.Type, to reflect.Type, data any) (any, error) {
		room, err := roomHook(from, to, data)
		if _, ok := data.(map[string]any); !ok && to == reflect.TypeOf(allocator.Room{}) {
			named = true
		}

		return room, err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       hook,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           c,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(m); err != nil {
		return fmt.Errorf("invalid room configuration (%w)", err)
	}

	c.named = c.named || named

	return nil
}

// Allocation returns the configured room list, applying the parallel capacities list if
// present. Rooms given by name only require a capacities list of the same length.
func (c *Config) Allocation() ([]allocator.Room, error) {
	if c.Capacities == nil && !c.named {
		return allocator.MakeRooms(names(c.Rooms), capacities(c.Rooms))
	}

	return allocator.MakeRooms(names(c.Rooms), c.Capacities)
}

// ParseRooms parses a room list of the form 'EG106:18,EG306:18,ED202:20'.
func ParseRooms(s string) ([]allocator.Room, error) {
	rooms := []allocator.Room{}

	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		ix := strings.LastIndex(token, ":")
		if ix < 0 {
			return nil, fmt.Errorf("invalid room '%s' - expected <name>:<capacity>", token)
		}

		name := strings.TrimSpace(token[:ix])
		capacity, err := strconv.Atoi(strings.TrimSpace(token[ix+1:]))
		if err != nil || name == "" {
			return nil, fmt.Errorf("invalid room '%s' - expected <name>:<capacity>", token)
		}

		rooms = append(rooms, allocator.Room{
			Name:     name,
			Capacity: capacity,
		})
	}

	return allocator.MakeRooms(names(rooms), capacities(rooms))
}

func roomHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(allocator.Room{}) {
		return data, nil
	}

	switch from.Kind() {
	case reflect.String:
		return allocator.Room{Name: data.(string)}, nil

	case reflect.Int:
		return allocator.Room{Name: fmt.Sprintf("%v", data)}, nil
	}

	return data, nil
}

func names(rooms []allocator.Room) []string {
	list := make([]string, len(rooms))
	for i, r := range rooms {
		list[i] = r.Name
	}

	return list
}

func capacities(rooms []allocator.Room) []int {
	list := make([]int, len(rooms))
	for i, r := range rooms {
		list[i] = r.Capacity
	}

	return list
}
