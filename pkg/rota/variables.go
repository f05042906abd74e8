package rota

// Model is the dense (employee, day, shift) boolean decision space.
// It allocates 4·num_employees·num_days cells up front and indexes
// them row-major over (i,d,s): each (employee, day, shift) triple is
// one boolean decision variable. A cell's value is -1 while unassigned,
// 0 or 1 once the search has committed to it.
type Model struct {
	cfg *Config

	numEmployees int
	numDays      int

	// cells[i*numDays*NumKinds + d*NumKinds + s] holds the assignment
	// state: cellUnset, cellFalse, or cellTrue.
	cells []int8
}

const (
	cellUnset int8 = -1
	cellFalse int8 = 0
	cellTrue  int8 = 1
)

// NewModel allocates the variable cube for cfg with every cell
// undecided. The builder is opaque beyond the Get/Set/Unset/ShiftOf
// accessors below.
func NewModel(cfg *Config) *Model {
	n := cfg.NumEmployees()
	d := cfg.NumDays
	cells := make([]int8, n*d*NumKinds)
	for j := range cells {
		cells[j] = cellUnset
	}
	return &Model{
		cfg:          cfg,
		numEmployees: n,
		numDays:      d,
		cells:        cells,
	}
}

func (m *Model) index(i, d int, s Kind) int {
	return i*m.numDays*NumKinds + d*NumKinds + int(s)
}

// Get returns the current assignment of x[i,d,s]: true, false, or
// ok=false if it has not been decided yet.
func (m *Model) Get(i, d int, s Kind) (value bool, ok bool) {
	c := m.cells[m.index(i, d, s)]
	if c == cellUnset {
		return false, false
	}
	return c == cellTrue, true
}

// Set commits x[i,d,s] to value. Callers are responsible for ensuring
// the assignment is consistent with the constraints already enforced;
// Set itself performs no propagation.
func (m *Model) Set(i, d int, s Kind, value bool) {
	if value {
		m.cells[m.index(i, d, s)] = cellTrue
	} else {
		m.cells[m.index(i, d, s)] = cellFalse
	}
}

// Unset reverts x[i,d,s] to undecided, used by the search when
// backtracking out of a branch.
func (m *Model) Unset(i, d int, s Kind) {
	m.cells[m.index(i, d, s)] = cellUnset
}

// ShiftOf returns the unique kind assigned to (i,d) once decided, and
// false if (i,d) isn't yet fully resolved to exactly one kind.
func (m *Model) ShiftOf(i, d int) (Kind, bool) {
	for s := Kind(0); int(s) < NumKinds; s++ {
		if v, ok := m.Get(i, d, s); ok && v {
			return s, true
		}
	}
	return 0, false
}

// NumEmployees and NumDays expose the model's dimensions.
func (m *Model) NumEmployees() int { return m.numEmployees }
func (m *Model) NumDays() int      { return m.numDays }

// Config returns the Config the model was built from.
func (m *Model) Config() *Config { return m.cfg }

// Clone makes an independent copy of the current variable assignment,
// used by the polish phase to keep its working copy and a snapshot of
// the best model found so far.
func (m *Model) Clone() *Model {
	cp := &Model{
		cfg:          m.cfg,
		numEmployees: m.numEmployees,
		numDays:      m.numDays,
		cells:        make([]int8, len(m.cells)),
	}
	copy(cp.cells, m.cells)
	return cp
}
