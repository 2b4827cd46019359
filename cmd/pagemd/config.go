package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/pagemd"
)

// Run executes the config show command.
func (c *ConfigShowCmd) Run(deps *Dependencies) error {
	prefs, err := deps.Preferences.FindPreferences(deps.Ctx)
	if err != nil {
		return err
	}
	printPreferences(deps.Stdout, prefs)
	return nil
}

// Run executes the config set command.
func (c *ConfigSetCmd) Run(deps *Dependencies) error {
	var upd pagemd.PreferencesUpdate
	if err := upd.Set(c.Key, c.Value); err != nil {
		return err
	}

	prefs, err := deps.Preferences.UpdatePreferences(deps.Ctx, upd)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "%s = %s\n", c.Key, prefs.Values()[c.Key])
	return nil
}

func printPreferences(w io.Writer, prefs *pagemd.Preferences) {
	values := prefs.Values()
	for _, key := range pagemd.PreferenceKeys() {
		fmt.Fprintf(w, "%s = %s\n", key, values[key])
	}
}
