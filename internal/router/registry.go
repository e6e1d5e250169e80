package router

import "github.com/gin-gonic/gin"

const APIBase = "/api/v1"

// Module describes a feature module that can register its routes on a RouterGroup
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects modules and mounts them under APIBase.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
	notFound    gin.HandlerFunc
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group(APIBase)}
}

// Use adds middleware that runs only for API routes.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// NotFound sets the handler for unmatched routes on the whole engine.
func (r *Registry) NotFound(h gin.HandlerFunc) {
	r.notFound = h
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
	if r.notFound != nil {
		r.Engine.NoRoute(r.notFound)
	}
}
