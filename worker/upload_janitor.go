package worker

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"
)

// PathLister reports every attachment/proof path still referenced by a
// database row. *repository.VisitRepository implements it.
type PathLister interface {
	ReferencedPaths() (map[string]bool, error)
}

// UploadJanitor is a background worker that removes orphaned upload files.
//
// Attachments are stored before the record mutation commits, so a failed
// mutation can leave a file on disk with no row pointing at it. The janitor
// sweeps the uploads tree periodically and deletes files past the grace
// period that no complaint, forward, update or visit report references.
type UploadJanitor struct {
	lister   PathLister
	basePath string
	interval time.Duration
	grace    time.Duration
	stopChan chan struct{}
	running  bool
}

// NewUploadJanitor creates a new upload janitor
func NewUploadJanitor(lister PathLister, basePath string, interval, grace time.Duration) *UploadJanitor {
	return &UploadJanitor{
		lister:   lister,
		basePath: basePath,
		interval: interval,
		grace:    grace,
		stopChan: make(chan struct{}),
	}
}

// Start starts the janitor in its own goroutine.
func (w *UploadJanitor) Start() {
	if w.running {
		log.Println("[janitor] already running")
		return
	}
	w.running = true
	log.Printf("[janitor] started (interval: %v, grace: %v)", w.interval, w.grace)
	go w.run()
}

// Stop stops the janitor.
func (w *UploadJanitor) Stop() {
	if !w.running {
		return
	}
	close(w.stopChan)
	w.running = false
	log.Println("[janitor] stopped")
}

func (w *UploadJanitor) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-w.stopChan:
			return
		}
	}
}

// sweep deletes unreferenced files older than the grace period. Safe to run
// repeatedly; a file referenced by any row is never touched, and young files
// are spared so an in-flight request cannot lose its upload.
func (w *UploadJanitor) sweep() {
	referenced, err := w.lister.ReferencedPaths()
	if err != nil {
		log.Printf("[janitor] failed to list referenced paths: %v", err)
		return
	}

	cutoff := time.Now().Add(-w.grace)
	removed := 0

	err = filepath.WalkDir(w.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(w.basePath, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if referenced[rel] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			log.Printf("[janitor] failed to remove %s: %v", rel, err)
			return nil
		}
		removed++
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		log.Printf("[janitor] sweep error: %v", err)
	}
	if removed > 0 {
		log.Printf("[janitor] removed %d orphaned upload(s)", removed)
	}
}
