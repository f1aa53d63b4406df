package contracts

import "github.com/julienschmidt/httprouter"

// Handler is a page group that mounts its routes on the application router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
