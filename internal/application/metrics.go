package application

import "expvar"

// Published on /api/debug/vars.
var (
	authOutcomes     = expvar.NewMap("auth_outcomes")
	blogMutations    = expvar.NewMap("blog_mutations")
	commentMutations = expvar.NewMap("comment_mutations")
)
