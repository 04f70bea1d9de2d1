// Package catalog holds the fixed artist-to-room assignment of the exhibition.
package catalog

import "sort"

// Artist describes one exhibiting artist and the signature color shown on their pages.
type Artist struct {
	Name      string `json:"name"`
	ColorName string `json:"color_name"`
	Hex       string `json:"hex"`
	Room      int    `json:"room"`
}

// Directory indexes artists by name and by room. It is built once and read-only afterwards.
type Directory struct {
	byName map[string]Artist
	rooms  map[int][]Artist
	names  []string
}

// NewDirectory builds a Directory from a room -> artists table. Room numbers in the table win
// over any Room value set on the entries.
func NewDirectory(rooms map[int][]Artist) *Directory {
	d := &Directory{
		byName: make(map[string]Artist),
		rooms:  make(map[int][]Artist, len(rooms)),
	}
	for room, artists := range rooms {
		list := make([]Artist, 0, len(artists))
		for _, a := range artists {
			a.Room = room
			list = append(list, a)
			if _, dup := d.byName[a.Name]; !dup {
				d.names = append(d.names, a.Name)
			}
			d.byName[a.Name] = a
		}
		d.rooms[room] = list
	}
	sort.Strings(d.names)
	return d
}

// Lookup returns the color metadata for an artist name.
func (d *Directory) Lookup(name string) (Artist, bool) {
	a, ok := d.byName[name]
	return a, ok
}

// Room returns the artists assigned to a room, in table order.
func (d *Directory) Room(room int) []Artist {
	return d.rooms[room]
}

// Rooms returns the room numbers in ascending order.
func (d *Directory) Rooms() []int {
	rooms := make([]int, 0, len(d.rooms))
	for r := range d.rooms {
		rooms = append(rooms, r)
	}
	sort.Ints(rooms)
	return rooms
}

// Names returns every artist name, sorted.
func (d *Directory) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Default is the exhibition's artist table.
func Default() *Directory {
	return NewDirectory(map[int][]Artist{
		1: {
			{Name: "이지윤", ColorName: "Periwinkle", Hex: "#ccccff"},
			{Name: "강유민", ColorName: "Yellow", Hex: "#ffde21"},
			{Name: "김세은", ColorName: "Purple", Hex: "#834094"},
		},
		2: {
			{Name: "전지현", ColorName: "Red", Hex: "#ff0000"},
			{Name: "현수윤", ColorName: "Pea-Green", Hex: "#8eab12"},
		},
		3: {
			{Name: "신은하", ColorName: "Black", Hex: "#1b0c0a"},
			{Name: "박희호", ColorName: "Blue", Hex: "#0000ff"},
		},
		4: {
			{Name: "김재준", ColorName: "Marine Blue", Hex: "#01386a"},
			{Name: "양연재", ColorName: "White", Hex: "#000000"},
		},
		5: {
			{Name: "이용준", ColorName: "Royal Blue", Hex: "#305cde"},
			{Name: "임승규", ColorName: "Green", Hex: "#008000"},
			{Name: "박서현", ColorName: "Rose", Hex: "#ff1d8d"},
		},
	})
}
