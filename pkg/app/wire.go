package app

import (
	"github.com/google/wire"
)

// AppComponents Wire 注入后收集的组件
type AppComponents struct {
	Servers []Server
	Closers []Closer
}

var ProviderSet = wire.NewSet(
	NewBaseApp,
)

// InitApp 将组件绑定到 BaseApp
func InitApp(app *BaseApp, comps AppComponents) *BaseApp {
	app.AppendServer(comps.Servers...)
	app.AppendCloser(comps.Closers...)
	return app
}
