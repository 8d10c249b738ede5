package service

import (
	"poli-assistant/internal/model"
	"poli-assistant/internal/utils"
)

// RoomDirectory is the read-only room index. Nothing mutates it after construction, so it
// is shared across turns without locking.
type RoomDirectory struct {
	byKey   map[string]*model.RoomRecord
	order   []string // keys in order of first appearance
	names   []indexedName
	chooser Chooser
}

type indexedName struct {
	normalized string
	room       *model.RoomRecord
}

// NewRoomDirectory indexes rooms. A later record with the same building and number
// replaces the earlier one but keeps its position in load order.
func NewRoomDirectory(rooms []model.RoomRecord, chooser Chooser) *RoomDirectory {
	if chooser == nil {
		chooser = NewChooser(0)
	}

	d := &RoomDirectory{
		byKey:   make(map[string]*model.RoomRecord, len(rooms)),
		chooser: chooser,
	}
	for i := range rooms {
		room := rooms[i]
		key := room.Key()
		if _, exists := d.byKey[key]; !exists {
			d.order = append(d.order, key)
		}
		d.byKey[key] = &room
	}

	for _, key := range d.order {
		room := d.byKey[key]
		for _, name := range room.Names {
			d.names = append(d.names, indexedName{normalized: utils.NormalizeName(name), room: room})
		}
	}

	return d
}

// Len returns the number of distinct rooms
func (d *RoomDirectory) Len() int {
	return len(d.order)
}

// Lookup finds a room by number and building. With an empty building the first room in
// load order carrying that number is returned, whatever its building.
func (d *RoomDirectory) Lookup(room, building string) *model.RoomRecord {
	if room == "" {
		return nil
	}
	if building != "" {
		return d.byKey[model.RoomKey(building, room)]
	}
	for _, key := range d.order {
		if r := d.byKey[key]; r.Number == room {
			return r
		}
	}
	return nil
}

// LookupByName matches query against room display names. Exact matches after
// normalisation win over partial ones; within the winning tier one match is chosen
// uniformly. A room with several matching names is counted once per name.
func (d *RoomDirectory) LookupByName(query string) *model.RoomRecord {
	room, _ := d.lookupByName(query)
	return room
}

func (d *RoomDirectory) lookupByName(query string) (*model.RoomRecord, utils.MatchTier) {
	q := utils.NormalizeName(query)
	if q == "" {
		return nil, utils.TierNone
	}

	var exact, partial []*model.RoomRecord
	for _, n := range d.names {
		switch utils.MatchName(q, n.normalized) {
		case utils.TierExact:
			exact = append(exact, n.room)
		case utils.TierPartial:
			partial = append(partial, n.room)
		}
	}

	switch {
	case len(exact) > 0:
		return exact[d.chooser.Intn(len(exact))], utils.TierExact
	case len(partial) > 0:
		return partial[d.chooser.Intn(len(partial))], utils.TierPartial
	default:
		return nil, utils.TierNone
	}
}
