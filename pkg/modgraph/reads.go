// SPDX-License-Identifier: MPL-2.0

package modgraph

// AddRead records that module from reads module to. The edge set is a set, so
// repeating the call has no effect. Self edges are implicit and not stored.
func (g *Graph) AddRead(from, to ModuleID) error {
	rec, err := g.mustRecord(from)
	if err != nil {
		return err
	}
	target, err := g.mustRecord(to)
	if err != nil {
		return err
	}
	if from == to {
		return nil
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if _, ok := rec.reads[to]; ok {
		return nil
	}
	rec.reads[to] = struct{}{}
	g.logger.Debug("read edge added", "from", rec.name, "to", target.name)
	return nil
}

// AddReadAll makes module from loose: it reads every module, including modules
// defined afterwards.
func (g *Graph) AddReadAll(from ModuleID) error {
	rec, err := g.mustRecord(from)
	if err != nil {
		return err
	}
	if !rec.loose.Swap(true) {
		g.logger.Debug("module made loose", "module", rec.name)
	}
	return nil
}

// CanRead reports whether module from reads module to. Every module reads
// itself; loose modules read everything. Readability is not transitive.
func (g *Graph) CanRead(from, to ModuleID) bool {
	rec, ok := g.record(from)
	if !ok {
		return false
	}
	if _, ok := g.record(to); !ok {
		return false
	}
	return rec.canRead(to)
}

func (r *moduleRecord) canRead(to ModuleID) bool {
	if to == r.id || r.loose.Load() {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.reads[to]
	return ok
}

// Reads lists the explicit read edges of module in ID order. Loose modules
// are reported through ModuleInfo.Loose rather than by enumerating every module.
func (g *Graph) Reads(module ModuleID) []ModuleID {
	rec, ok := g.record(module)
	if !ok {
		return nil
	}
	rec.mu.RLock()
	defer rec.mu.RUnlock()
	if len(rec.reads) == 0 {
		return nil
	}
	return sortedKeys(rec.reads)
}
