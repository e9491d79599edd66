// Copyright 2016 The Gofab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements reporting and plotting of solved structures
package out

import (
	"bytes"
	"math"

	"github.com/cpmech/gofab/ik"
	"github.com/cpmech/gosl/io"
)

// Report returns a text summary of a structure: per-chain solve distances
// and per-bone endpoints with the drift between live and stored lengths
func Report(st *ik.Structure) string {
	var buf bytes.Buffer
	io.Ff(&buf, "structure %q: %d chains\n", st.Name(), st.NumChains())
	for i := 0; i < st.NumChains(); i++ {
		c, _ := st.Chain(i)
		io.Ff(&buf, "chain %q: nbones=%d length=%g distance=%g\n", c.Name(), c.NumBones(), c.ChainLength(), c.SolveDistance())
		for k := 0; k < c.NumBones(); k++ {
			b, _ := c.Bone(k)
			s, e := b.Start(), b.End()
			io.Ff(&buf, "  bone %d: (%8.4f,%8.4f,%8.4f) to (%8.4f,%8.4f,%8.4f) drift=%9.2e\n",
				k, s.X(), s.Y(), s.Z(), e.X(), e.Y(), e.Z(), math.Abs(b.LiveLength()-b.Length()))
		}
	}
	return buf.String()
}
