// Package servicectx is the composition root: it holds the
// shared store and registry pointers every service is built from, so
// a caller can construct one Context and share it across every
// service instance instead of wiring each store individually.
package servicectx

import (
	"github.com/ZnLuAr/dns-orchestrator-sub000/registry"
	"github.com/ZnLuAr/dns-orchestrator-sub000/store/accountrepo"
	"github.com/ZnLuAr/dns-orchestrator-sub000/store/credstore"
	"github.com/ZnLuAr/dns-orchestrator-sub000/store/metadatarepo"
)

// Context bundles the four shared stores/registries every service
// depends on. Every service accepts a *Context on construction.
type Context struct {
	Accounts    accountrepo.Repo
	Credentials credstore.Store
	Metadata    metadatarepo.Repo
	Registry    *registry.Registry
}

// New assembles a Context from its four parts. Callers typically build
// each store/registry once at startup and pass the same *Context to
// every service.
func New(accounts accountrepo.Repo, credentials credstore.Store, metadata metadatarepo.Repo, reg *registry.Registry) *Context {
	return &Context{
		Accounts:    accounts,
		Credentials: credentials,
		Metadata:    metadata,
		Registry:    reg,
	}
}
