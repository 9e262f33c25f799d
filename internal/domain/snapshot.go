package domain

// Snapshot is the atomic unit the store reads and writes. The core
// never streams partial updates; a save replaces the whole state.
type Snapshot struct {
	WorkingHours WorkingHours          `json:"working_hours"`
	Schedule     map[Weekday][]*Lesson `json:"schedule"`
	Students     []*Student            `json:"students"`
}

// Clone deep-copies the snapshot. The service keeps a pre-mutation
// copy so a failed save can roll the in-memory state back.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		WorkingHours: s.WorkingHours,
		Schedule:     make(map[Weekday][]*Lesson, len(s.Schedule)),
		Students:     make([]*Student, 0, len(s.Students)),
	}
	for day, lessons := range s.Schedule {
		copied := make([]*Lesson, len(lessons))
		for i, l := range lessons {
			lesson := *l
			copied[i] = &lesson
		}
		c.Schedule[day] = copied
	}
	for _, st := range s.Students {
		c.Students = append(c.Students, st.Clone())
	}
	return c
}
