// Package sqlite persists storage scopes in a local SQLite file.
//
// It backs the durable scope of simulated devices so a visitor identity
// outlives the process, the way localStorage outlives a browser tab. The
// driver is modernc.org/sqlite and needs no CGO.
//
// One database holds any number of namespaces. Each namespace is an
// independent key/value scope:
//
//	db, err := sqlite.Open(ctx, "senzor.db")
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
//	durable := db.Scope("laptop")
//	mgr := session.New(session.WithScopes(durable, nil))
package sqlite
