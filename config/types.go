package config

// Action is the message handed to reducers and middlewares by the store runtime.
type Action struct {
	Type    string
	Payload any
	Meta    any
}

// Reducer is a state transition registered under a name.
type Reducer func(state any, action Action) any

// ReducersMapper combines named reducers into a single root reducer.
type ReducersMapper func(reducers map[string]Reducer) Reducer

// StoreCreator builds a store from a root reducer. The returned value is owned
// by the runtime.
type StoreCreator func(reducer Reducer, initialState any, enhancer Enhancer) any

// Enhancer wraps store construction.
type Enhancer func(next StoreCreator) StoreCreator

// Dispatch sends an action through the middleware chain.
type Dispatch func(action Action) any

// Middleware wraps dispatch.
type Middleware func(next Dispatch) Dispatch

// Models maps a model name to its definition. Definitions are opaque here.
type Models map[string]any

// InitConfig is the caller supplied configuration. It is an open map so data
// coming from files, environment or code goes through the same shape checks.
//
// Known keys: name, models, plugins and redux. The redux value is a nested
// map with the keys reducers, rootReducers, enhancers, middlewares,
// initialState, combineReducers, createStore and devtoolOptions. Any other key
// is carried verbatim into Config.Extra or StateConfig.Extra.
type InitConfig map[string]any

// Keys understood by Merge.
const (
	KeyName            = "name"
	KeyModels          = "models"
	KeyPlugins         = "plugins"
	KeyRedux           = "redux"
	KeyReducers        = "reducers"
	KeyRootReducers    = "rootReducers"
	KeyEnhancers       = "enhancers"
	KeyMiddlewares     = "middlewares"
	KeyInitialState    = "initialState"
	KeyCombineReducers = "combineReducers"
	KeyCreateStore     = "createStore"
	KeyDevtoolOptions  = "devtoolOptions"
)

// Config is the normalized configuration consumed by the store runtime.
type Config struct {
	Name    string
	Models  Models
	Plugins []*Plugin
	Redux   StateConfig
	// Extra holds caller keys Merge does not know about and known keys whose
	// value had the wrong shape.
	Extra map[string]any
}

// StateConfig is the store section of Config.
type StateConfig struct {
	Reducers map[string]Reducer
	// RootReducers is fed from plugin fragment Reducers, see Merge.
	RootReducers    map[string]Reducer
	Enhancers       []Enhancer
	Middlewares     []Middleware
	InitialState    map[string]any
	CombineReducers ReducersMapper
	CreateStore     StoreCreator
	DevtoolOptions  map[string]any
	Extra           map[string]any
}

// Fragment is the partial configuration contributed by one plugin.
type Fragment struct {
	Models  Models
	Plugins []*Plugin
	Redux   *StateFragment
}

// StateFragment is the store part of a Fragment.
type StateFragment struct {
	InitialState map[string]any
	Reducers     map[string]Reducer
	// RootReducers is accepted for symmetry with StateConfig but never read:
	// root reducers are populated from Reducers.
	RootReducers    map[string]Reducer
	Enhancers       []Enhancer
	Middlewares     []Middleware
	CombineReducers ReducersMapper
	CreateStore     StoreCreator
}
