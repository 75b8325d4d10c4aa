package cache

import "github.com/xakep666/licensecatalog/pkg/catalog"

// Cacher covers all interfaces which calls should be cached
type Cacher interface {
	catalog.Resolver
}

type Direct struct {
	catalog.Resolver
}
