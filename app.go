package main

import (
	"context"
	"io"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
	"github.com/sirupsen/logrus"

	"github.com/mgmeyers/pdftakeoff/config"
	"github.com/mgmeyers/pdftakeoff/markup"
	"github.com/mgmeyers/pdftakeoff/persist"
	"github.com/mgmeyers/pdftakeoff/render"
)

// app holds what every command shares: one decode queue for the process and
// the annotation store on disk.
type app struct {
	cfg    *config.Config
	log    *logrus.Logger
	loader *render.Loader
	queue  *render.Queue
	store  persist.FileStore
	saver  *persist.Debouncer

	input string
}

func newApp(configPath, level string, logOut io.Writer) (*app, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	if level != "" {
		cfg.Log.Level = level
	}

	log, err := cfg.Log.NewLogger(logOut)
	if err != nil {
		return nil, err
	}

	render.SetLogger(log)

	a := &app{
		cfg:    cfg,
		log:    log,
		loader: render.NewLoader(render.FileSource{}),
		store:  persist.FileStore{Dir: cfg.Persist.Dir},
	}

	a.saver = persist.NewDebouncer(a.store, cfg.Persist.Debounce)
	a.saver.Log = log

	gate := render.NewGate(cfg.Render.ProbeTimeout,
		render.Probe{Name: "file", Check: a.probeFile},
		render.Probe{Name: "memory", Check: a.probeMemory},
	)
	a.queue = render.NewQueue(gate, cfg.Render.Queue)

	return a, nil
}

// probeFile brings MuPDF up by opening the input from disk.
func (a *app) probeFile(ctx context.Context) error {
	doc, err := fitz.New(a.input)
	if err != nil {
		return err
	}

	return doc.Close()
}

// probeMemory brings MuPDF up from the document bytes.
func (a *app) probeMemory(ctx context.Context) error {
	data, err := a.loader.Load(ctx, a.input)
	if err != nil {
		return err
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return err
	}

	return doc.Close()
}

// open loads input and parses it on the decode queue, which owns the
// decoder from then on.
func (a *app) open(ctx context.Context, input string) (*render.PDFDecoder, error) {
	a.input = input

	data, err := a.loader.Load(ctx, input)
	if err != nil {
		return nil, err
	}

	var dec *render.PDFDecoder
	err = a.queue.Do(ctx, func(ctx context.Context) error {
		var err error
		dec, err = render.OpenPDF(data)
		return err
	})
	if err != nil {
		return nil, err
	}

	a.log.WithFields(logrus.Fields{
		"input": filepath.Base(input),
		"probe": a.queue.Gate().Source(),
	}).Debug("document opened")

	return dec, nil
}

// closeDecoder releases dec on the queue after all earlier jobs.
func (a *app) closeDecoder(ctx context.Context, dec *render.PDFDecoder) {
	err := a.queue.Do(ctx, func(ctx context.Context) error {
		return dec.Close()
	})
	if err != nil {
		a.log.WithError(err).Warn("failed to close document")
	}
}

// workspace loads the persisted set of one page for pack, with every change
// saved in the background.
func (a *app) workspace(doc, pack string) (*markup.Workspace, *markup.Store, error) {
	set, err := a.store.Load(markup.Ref{Doc: doc, Pack: pack})
	if err != nil {
		return nil, nil, err
	}

	ws := markup.NewWorkspace(doc, a.saver.Push)

	return ws, ws.Load(pack, set), nil
}

func (a *app) close() {
	if err := a.saver.Flush(context.Background()); err != nil {
		a.log.WithError(err).Error("failed to save annotations")
	}

	a.queue.Close()
}
