package InputParameters

import (
	"bytes"
	"testing"

	"github.com/notargets/hexkernel/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaseParametersParse(t *testing.T) {
	fileInput := []byte(`
Title: Two hexes
Policy: host
Workers: 4
Tolerance: 1.e-8
Repeat: 10
Elements:
  - [[-1.1,-1.3,-1.1], [1.3,-1.1,-1.2], [-1.2,1.1,-1.1], [1.1,1.2,-1.3],
     [-1.3,-1.2,1.1], [1.1,-1.3,1.2], [-1.2,1.2,1.3], [1.2,1.1,1.1]]
  - [[0,0,0], [1,0,0], [0,1,0], [1,1,0], [0,0,1], [1,0,1], [0,1,1], [1,1,1]]
`)
	cp := DefaultCase()
	require.NoError(t, cp.Parse(fileInput))
	require.NoError(t, cp.Validate())
	var w bytes.Buffer
	cp.Print(&w)
	assert.Contains(t, w.String(), "\"Two hexes\"\t\t= Title\n")
	assert.Contains(t, w.String(), "[2]\t\t\t= Elements\n")
	assert.Equal(t, "Two hexes", cp.Title)
	assert.Equal(t, 1.e-8, cp.Tolerance)
	assert.Equal(t, 10, cp.Repeat)
	require.Len(t, cp.Elements, 2)
	assert.Equal(t, IrregularHexahedron, cp.Elements[0])
	assert.Equal(t, [3]float64{1, 1, 1}, cp.Elements[1][7])

	p, err := cp.NewPolicy()
	require.NoError(t, err)
	assert.Equal(t, dispatch.HostConcurrent{Workers: 4}, p)

	batch := cp.NewElementBatch()
	batch.Evaluate(p)
	assert.InDelta(t, 1., batch.Volume(1), 1.e-13)
}

func TestCaseParametersValidate(t *testing.T) {
	{
		cp := DefaultCase()
		assert.NoError(t, cp.Validate())
	}
	{
		cp := DefaultCase()
		cp.Policy = "quantum"
		assert.Error(t, cp.Validate())
	}
	{
		cp := DefaultCase()
		cp.Elements = nil
		assert.Error(t, cp.Validate())
	}
	{
		cp := DefaultCase()
		cp.Tolerance = 0
		assert.Error(t, cp.Validate())
	}
	{ // Elements must be a list of node tables
		cp := DefaultCase()
		assert.Error(t, cp.Parse([]byte("Elements: corner\n")))
	}
}

func TestCaseParametersNodeTableShape(t *testing.T) {
	const cube = "[[0,0,0], [1,0,0], [0,1,0], [1,1,0], [0,0,1], [1,0,1], [0,1,1], [1,1,1]"
	{ // Seven nodes
		cp := DefaultCase()
		err := cp.Parse([]byte("Elements:\n  - " + cube + "]\n  - [[0,0,0], [1,0,0], [0,1,0], [1,1,0], [0,0,1], [1,0,1], [0,1,1]]\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "element 1 has 7 nodes, need 8")
		assert.Equal(t, DefaultCase().Elements, cp.Elements)
	}
	{ // Nine nodes
		cp := DefaultCase()
		err := cp.Parse([]byte("Elements:\n  - " + cube + ", [2,2,2]]\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "element 0 has 9 nodes, need 8")
	}
	{ // Ragged coordinates
		cp := DefaultCase()
		err := cp.Parse([]byte("Elements:\n  - " + cube + "]\n  - " + cube + "]\n" +
			"  - [[0,0], [1,0,0], [0,1,0], [1,1,0], [0,0,1], [1,0,1], [0,1,1], [1,1,1]]\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "element 2, node 0 has 2 coordinates, need 3")
	}
	{
		cp := DefaultCase()
		err := cp.Parse([]byte("Elements:\n  - " + cube + "]\n  - [[0,0,0,4], [1,0,0], [0,1,0], [1,1,0], [0,0,1], [1,0,1], [0,1,1], [1,1,1]]\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "element 1, node 0 has 4 coordinates, need 3")
	}
	{ // A case without Elements keeps the current ones
		cp := DefaultCase()
		require.NoError(t, cp.Parse([]byte("Title: no elements\n")))
		assert.Equal(t, "no elements", cp.Title)
		assert.Equal(t, []Hexahedron{IrregularHexahedron}, cp.Elements)
	}
}
