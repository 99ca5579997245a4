package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/copyedit/internal/engine/buffer"
	"github.com/dshills/copyedit/internal/logging"
)

// followDelay coalesces the burst of events an editor save produces.
const followDelay = 50 * time.Millisecond

// follower keeps a buffer in sync with a file edited by another program.
// Each reload is applied as the smallest single edit, so decorations
// outside the changed region survive.
type follower struct {
	path string
	buf  *buffer.Buffer
	fsw  *fsnotify.Watcher
	log  *logging.Logger

	mu     sync.Mutex
	timer  *time.Timer
	closed bool

	// reloading serializes reloads so an older read never lands last.
	reloading sync.Mutex

	closeCh chan struct{}
	wg      sync.WaitGroup
}

func followFile(path string, buf *buffer.Buffer, log *logging.Logger) (*follower, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	// Watch the directory: editors that save by rename replace the inode.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	f := &follower{
		path:    abs,
		buf:     buf,
		fsw:     fsw,
		log:     log.WithComponent("follow").WithField("path", abs),
		closeCh: make(chan struct{}),
	}
	f.wg.Add(1)
	go f.loop()
	return f, nil
}

func (f *follower) loop() {
	defer f.wg.Done()
	for {
		select {
		case <-f.closeCh:
			return
		case ev, ok := <-f.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) == f.path && (ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				f.schedule()
			}
		case err, ok := <-f.fsw.Errors:
			if !ok {
				return
			}
			f.log.Warn("watch error: %v", err)
		}
	}
}

func (f *follower) schedule() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(followDelay, f.fire)
}

// fire runs a scheduled reload unless the follower was closed after the
// timer went off.
func (f *follower) fire() {
	f.reloading.Lock()
	defer f.reloading.Unlock()

	f.mu.Lock()
	closed := f.closed
	f.mu.Unlock()
	if closed {
		return
	}
	if err := f.reload(); err != nil {
		f.log.Warn("reload failed: %v", err)
	}
}

// reload reads the file and applies the difference to the buffer.
func (f *follower) reload() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}
	change, err := f.buf.SetText(string(data))
	if err != nil {
		return err
	}
	if change.Revision != 0 {
		f.log.Debug("applied %s at revision %d", change.Delta, change.Revision)
	}
	return nil
}

func (f *follower) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	if f.timer != nil {
		f.timer.Stop()
	}
	close(f.closeCh)
	f.mu.Unlock()

	// Wait out a reload that was already running.
	f.reloading.Lock()
	f.reloading.Unlock() //nolint:staticcheck // empty section waits for fire
	f.wg.Wait()
	return f.fsw.Close()
}
