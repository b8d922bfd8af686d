// Package shutdown coordinates cleanup when the CLI exits.
//
// Resources that must be released (the credential store, the history
// file, the config watcher) register a hook. Hooks run once, in reverse
// order of registration, under a shared deadline:
//
//	ctx, stop := shutdown.WithSignals(context.Background())
//	defer stop()
//
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnShutdown(func(ctx context.Context) error { return store.Close() })
//	defer h.Run()
package shutdown
