package main

import (
	"fmt"

	"github.com/goliatone/go-storecfg/config"
	"github.com/goliatone/go-storecfg/logger"
	"github.com/spf13/cobra"
)

const (
	loadingModel = "loading"
	devtoolsKey  = "devtools"
)

// demoRegistry holds the plugins that init configs can reference by name.
func demoRegistry(lgr logger.Logger) *config.Registry {
	return config.NewRegistry(loadingPlugin(), devtoolsPlugin(lgr))
}

// loadingPlugin tracks pending effects under the loading model.
func loadingPlugin() *config.Plugin {
	return config.NewPlugin("loading", config.Static(config.Fragment{
		Models: config.Models{
			loadingModel: map[string]any{
				"state": map[string]any{
					"global":  false,
					"models":  map[string]any{},
					"effects": map[string]any{},
				},
			},
		},
		Redux: &config.StateFragment{
			InitialState: map[string]any{
				loadingModel: map[string]any{"global": false},
			},
			Reducers: map[string]config.Reducer{
				loadingModel: loadingReducer,
			},
		},
	}))
}

func loadingReducer(state any, action config.Action) any {
	switch action.Type {
	case "loading/show":
		return map[string]any{"global": true}
	case "loading/hide":
		return map[string]any{"global": false}
	}
	return state
}

// devtoolsPlugin adds an enhancer unless the devtool options disable it or
// do not decode.
func devtoolsPlugin(lgr logger.Logger) *config.Plugin {
	return config.NewPlugin(devtoolsKey, config.Dynamic(func(cfg *config.Config) *config.Fragment {
		settings, err := cfg.Devtools()
		if err != nil {
			lgr.Warn("devtools skipped: %v", err)
			return nil
		}
		if settings.Disabled {
			return nil
		}
		lgr.Debug("devtools %q enabled, maxAge=%d trace=%t", settings.Name, settings.MaxAge, settings.Trace)
		return &config.Fragment{
			Redux: &config.StateFragment{
				Enhancers: []config.Enhancer{
					func(next config.StoreCreator) config.StoreCreator {
						return next
					},
				},
			},
		}
	}))
}

func newPluginsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List the plugins an init config can reference by name",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range demoRegistry(logger.Nop()).Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
