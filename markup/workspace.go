package markup

import "sort"

// Workspace keeps an independent set per pack for one document. The empty
// pack name is the default set used outside any pack.
type Workspace struct {
	doc      string
	stores   map[string]*Store
	listener func(Ref, Update)
}

// NewWorkspace returns an empty workspace for doc. listener may be nil.
func NewWorkspace(doc string, listener func(Ref, Update)) *Workspace {
	return &Workspace{
		doc:      doc,
		stores:   map[string]*Store{},
		listener: listener,
	}
}

// Doc returns the document identifier.
func (w *Workspace) Doc() string {
	return w.doc
}

func (w *Workspace) listenerFor(pack string) Listener {
	if w.listener == nil {
		return nil
	}

	ref := Ref{Doc: w.doc, Pack: pack}

	return func(u Update) { w.listener(ref, u) }
}

// Load installs a previously persisted set for pack, replacing any store
// already open for it.
func (w *Workspace) Load(pack string, set *Set) *Store {
	s := NewStore(set, w.listenerFor(pack))
	w.stores[pack] = s

	return s
}

// Store returns the store for pack, creating an empty one on first use.
func (w *Workspace) Store(pack string) *Store {
	if s, ok := w.stores[pack]; ok {
		return s
	}

	return w.Load(pack, nil)
}

// Default returns the store used when no pack is active.
func (w *Workspace) Default() *Store {
	return w.Store("")
}

// Packs lists the packs with an open store, default first.
func (w *Workspace) Packs() []string {
	packs := make([]string, 0, len(w.stores))
	for p := range w.stores {
		packs = append(packs, p)
	}

	sort.Strings(packs)

	return packs
}
