package config

import (
	"log"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config whenever the file changes and hands the
// result to onReload. Events are debounced because editors fire several
// per save; renames re-arm the watch to survive atomic writes. The
// watcher runs until stop is closed.
func Watch(path string, onReload func(*Config), stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()

		var debounce *time.Timer
		const debounceInterval = 500 * time.Millisecond

		reload := func() {
			cfg, err := Load(path)
			if err != nil {
				log.Printf("config reload failed, keeping previous config: %v", err)
				return
			}
			onReload(cfg)
		}

		for {
			select {
			case <-stop:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Chmod == fsnotify.Chmod {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				if event.Op&(fsnotify.Rename|fsnotify.Remove) != 0 {
					go func() {
						time.Sleep(100 * time.Millisecond)
						watcher.Add(path)
					}()
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceInterval, reload)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("config watcher: %v", err)
			}
		}
	}()

	return nil
}
