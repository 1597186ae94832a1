// Package dev watches the files an app is served from so that
// `dvue serve --watch` can remount on change.
//
// The watcher subscribes to the parent directories of the watched files,
// because editors often replace a file instead of writing it in place.
// Events for other files in those directories are dropped. Bursts of
// events are coalesced into one callback per debounce window:
//
//	w, err := dev.NewWatcher(dev.WatcherConfig{
//	    Files: map[string]dev.ChangeType{
//	        "index.html": dev.ChangeTemplate,
//	        "data.json":  dev.ChangeData,
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	w.OnChange(func(changes []dev.Change) { reload() })
//	go w.Start(ctx)
package dev
