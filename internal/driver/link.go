package driver

import (
	"github.com/MicrosoftEdge/WebGL-sub003/internal/link"
)

// LinkResult holds the final HLSL of both stages of a program.
type LinkResult struct {
	Vertex   string
	Fragment string
	// Varyings names the retained vertex outputs in declaration order.
	Varyings []string
	Rows     int
}

func linkUnits(vs, fs *Result, budget int) (*LinkResult, error) {
	res, err := link.Link(vs.Interface, fs.Interface, budget)
	if err != nil {
		return nil, err
	}
	out := &LinkResult{
		Vertex:   vs.HLSL.Assemble(res.VertexPrologue),
		Fragment: fs.HLSL.Assemble(res.FragmentPrologue),
		Rows:     res.Rows,
	}
	for _, v := range res.Linked {
		out.Varyings = append(out.Varyings, v.Name)
	}
	return out, nil
}
