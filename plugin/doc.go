// Package plugin connects the local STT provider to a host application.
//
// A Host accepts a configuration schema, provider registrations and shutdown
// hooks. Plugin holds its provider as an explicit instance rather than a
// package-level singleton, so several plugins can live in one process.
//
//	p := plugin.New(cfg, manager)
//	if err := p.Init(ctx, host); err != nil {
//	    return err
//	}
//	status, err := p.Tools()[0].Handler(ctx)
package plugin
