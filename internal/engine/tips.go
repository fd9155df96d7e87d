package engine

// TipExtender grows a sequence past its outermost seed along unbranched graph
// paths only.
type TipExtender struct {
	Query  *Query
	Params Params
}

// border returns the k-mer at the extended end of seq.
func border(seq string, k int, dir Direction) string {
	if k > len(seq) {
		k = len(seq)
	}
	if dir == Left {
		return seq[:k]
	}
	return seq[len(seq)-k:]
}

// overlap is the number of bases a candidate found from the order-k border of
// seq shares with seq.
func overlap(seq string, k int) int {
	if k > len(seq) {
		k = len(seq)
	}
	return k - 1
}

// Extend adds bases to the dir end of seq while exactly one extension exists
// and fewer than budget bases were added. It returns the extended sequence and
// the number of bases added; a branch point or dead end stops it.
func (t *TipExtender) Extend(dir Direction, budget int, seq string) (string, int) {
	added := 0
	if budget <= 0 || seq == "" {
		return seq, 0
	}
	nb, k := t.Query.dropdown(seq, t.Params.MaxOrder, t.Params.MinOrder, dir)
	for len(nb) == 1 && added < budget {
		c := nb[0]
		ov := overlap(seq, k)
		if len(c) <= ov {
			break
		}
		if dir == Left {
			seq = c[:len(c)-ov] + seq
		} else {
			seq += c[ov:]
		}
		added += len(c) - ov
		nb, k = t.Query.dropdown(seq, t.Params.MaxOrder, t.Params.MinOrder, dir)
	}
	return seq, added
}
