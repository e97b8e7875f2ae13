// Package config loads, normalizes, and validates subalign configuration.
//
// Settings live in a TOML file resolved from --config, then
// ~/.config/subalign/config.toml, then ./subalign.toml. Missing files are not
// an error: Default supplies every value, and command-line flags that were
// explicitly set override whatever the file says. Load expands paths and
// runs Validate before handing the result out.
package config
