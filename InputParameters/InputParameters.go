package InputParameters

import (
	"fmt"
	"io"

	"github.com/ghodss/yaml"
	"github.com/notargets/hexkernel/dispatch"
	"github.com/notargets/hexkernel/hexelement"
	"github.com/notargets/hexkernel/utils"
)

type Hexahedron [hexelement.NumNodes][hexelement.NumDims]float64

// Parameters obtained from the YAML case file
type CaseParameters struct {
	Title     string       `yaml:"Title"`
	Policy    string       `yaml:"Policy"`    // sequential, host or accelerator
	Workers   int          `yaml:"Workers"`   // host policy goroutines, 0 = NumCPU
	BlockSize int          `yaml:"BlockSize"` // accelerator policy block size, 0 = 32
	Tolerance float64      `yaml:"Tolerance"` // relative tolerance for validation
	Repeat    int          `yaml:"Repeat"`    // benchmark repetitions
	Elements  []Hexahedron `yaml:"Elements"`  // node coordinates, 8 nodes x 3 coordinates each
}

// IrregularHexahedron is the built-in regression element
var IrregularHexahedron = Hexahedron{
	{-1.1, -1.3, -1.1},
	{1.3, -1.1, -1.2},
	{-1.2, 1.1, -1.1},
	{1.1, 1.2, -1.3},
	{-1.3, -1.2, 1.1},
	{1.1, -1.3, 1.2},
	{-1.2, 1.2, 1.3},
	{1.2, 1.1, 1.1},
}

// DefaultCase evaluates the regression element sequentially
func DefaultCase() *CaseParameters {
	return &CaseParameters{
		Title:     "Irregular hexahedron",
		Policy:    "sequential",
		Tolerance: utils.RELTOL,
		Repeat:    1,
		Elements:  []Hexahedron{IrregularHexahedron},
	}
}

// Parse reads a YAML case file over the current values. Every element must
// list exactly NumNodes nodes of exactly NumDims coordinates.
func (cp *CaseParameters) Parse(data []byte) (err error) {
	// Node tables are decoded ragged and checked before being copied in
	var nodes struct {
		Elements *[][][]float64 `yaml:"Elements"`
	}
	if err = yaml.Unmarshal(data, &nodes); err != nil {
		return
	}
	var elements []Hexahedron
	if nodes.Elements != nil {
		if elements, err = newHexahedra(*nodes.Elements); err != nil {
			return
		}
	}
	if err = yaml.Unmarshal(data, cp); err != nil {
		return
	}
	if nodes.Elements != nil {
		cp.Elements = elements
	}
	return
}

func newHexahedra(tables [][][]float64) (hexes []Hexahedron, err error) {
	hexes = make([]Hexahedron, len(tables))
	for k, table := range tables {
		if len(table) != hexelement.NumNodes {
			return nil, fmt.Errorf("element %d has %d nodes, need %d", k, len(table), hexelement.NumNodes)
		}
		for a, node := range table {
			if len(node) != hexelement.NumDims {
				return nil, fmt.Errorf("element %d, node %d has %d coordinates, need %d",
					k, a, len(node), hexelement.NumDims)
			}
			copy(hexes[k][a][:], node)
		}
	}
	return
}

func (cp *CaseParameters) Validate() (err error) {
	if _, err = dispatch.NewPolicy(cp.Policy, cp.Workers, cp.BlockSize); err != nil {
		return
	}
	if cp.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, have %g", cp.Tolerance)
	}
	if cp.Repeat < 1 {
		return fmt.Errorf("repeat must be at least 1, have %d", cp.Repeat)
	}
	if len(cp.Elements) == 0 {
		return fmt.Errorf("case %q has no elements", cp.Title)
	}
	return
}

func (cp *CaseParameters) NewPolicy() (dispatch.Policy, error) {
	return dispatch.NewPolicy(cp.Policy, cp.Workers, cp.BlockSize)
}

func (cp *CaseParameters) NewElementBatch() *hexelement.ElementBatch {
	coords := make([][hexelement.NumNodes][hexelement.NumDims]float64, len(cp.Elements))
	for k, hex := range cp.Elements {
		coords[k] = hex
	}
	return hexelement.NewElementBatchFromCoords(coords)
}

func (cp *CaseParameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", cp.Title)
	fmt.Fprintf(w, "[%s]\t\t= Policy\n", cp.Policy)
	fmt.Fprintf(w, "[%d]\t\t\t= Workers\n", cp.Workers)
	fmt.Fprintf(w, "[%d]\t\t\t= BlockSize\n", cp.BlockSize)
	fmt.Fprintf(w, "%8.2e\t\t= Tolerance\n", cp.Tolerance)
	fmt.Fprintf(w, "[%d]\t\t\t= Repeat\n", cp.Repeat)
	fmt.Fprintf(w, "[%d]\t\t\t= Elements\n", len(cp.Elements))
}
