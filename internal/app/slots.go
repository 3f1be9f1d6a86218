package app

import (
	"fmt"

	"github.com/dkeye/Channel/internal/domain"
	"github.com/rs/zerolog/log"
)

type slotEntry struct {
	ID       domain.ParticipantID
	Occupied bool
	Muted    bool
}

// Slots is a fixed-capacity table of render slots.
// Not safe for concurrent use; the tracker's loop is its only caller.
type Slots struct {
	entries []slotEntry
}

func NewSlots(capacity int) *Slots {
	return &Slots{entries: make([]slotEntry, capacity)}
}

func (s *Slots) Capacity() int { return len(s.entries) }

// Assign puts id into the first empty slot by ascending index.
func (s *Slots) Assign(id domain.ParticipantID) (int, error) {
	for i := range s.entries {
		if s.entries[i].Occupied {
			continue
		}
		s.entries[i] = slotEntry{ID: id, Occupied: true}
		log.Debug().Str("module", "app.slots").Int("slot", i).Str("uid", id.String()).Msg("slot assigned")
		return i, nil
	}
	return -1, domain.ErrSlotExhaustion
}

// Overwrite rebinds an occupied slot to id, keeping its mute flag.
func (s *Slots) Overwrite(i int, id domain.ParticipantID) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.entries[i].ID = id
	s.entries[i].Occupied = true
	return nil
}

func (s *Slots) IndexOf(id domain.ParticipantID) (int, bool) {
	for i, e := range s.entries {
		if e.Occupied && e.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Release empties the slot holding id. The returned entry is the one removed.
func (s *Slots) Release(id domain.ParticipantID) (int, slotEntry, bool) {
	i, ok := s.IndexOf(id)
	if !ok {
		return -1, slotEntry{}, false
	}
	old := s.entries[i]
	s.entries[i] = slotEntry{}
	log.Debug().Str("module", "app.slots").Int("slot", i).Str("uid", id.String()).Msg("slot released")
	return i, old, true
}

func (s *Slots) At(i int) (slotEntry, error) {
	if err := s.check(i); err != nil {
		return slotEntry{}, err
	}
	return s.entries[i], nil
}

func (s *Slots) SetMuted(i int, muted bool) error {
	if err := s.check(i); err != nil {
		return err
	}
	if !s.entries[i].Occupied {
		return domain.ErrSlotEmpty
	}
	s.entries[i].Muted = muted
	return nil
}

func (s *Slots) Clear() {
	clear(s.entries)
}

func (s *Slots) Count() int {
	n := 0
	for _, e := range s.entries {
		if e.Occupied {
			n++
		}
	}
	return n
}

func (s *Slots) Snapshot() []domain.SlotView {
	out := make([]domain.SlotView, 0, len(s.entries))
	for i, e := range s.entries {
		out = append(out, domain.SlotView{
			Index:       i,
			Occupied:    e.Occupied,
			Participant: e.ID,
			Muted:       e.Muted,
		})
	}
	return out
}

func (s *Slots) check(i int) error {
	if i < 0 || i >= len(s.entries) {
		return fmt.Errorf("slot %d of %d: %w", i, len(s.entries), domain.ErrSlotIndex)
	}
	return nil
}
