// Package config loads process configuration and exposes named runtime
// settings.
//
// Two concerns live here:
//
//   - Load / MustLoad parse environment variables (after an optional `.env`
//     file) into tagged structs using github.com/caarlos0/env/v11 and
//     github.com/joho/godotenv. Each struct type is parsed once per process
//     and cached.
//
//   - Values, Env and Chain implement a tiny key/value accessor used for the
//     legacy-style named settings (`session_idle_time`, `base_url`, ...).
//     Values can be loaded from a YAML file with LoadValues.
//
// # Usage
//
//	var pgCfg pg.Config
//	config.MustLoad(&pgCfg)
//
//	file, err := config.LoadValues("settings.yaml")
//	if err != nil {
//		return err
//	}
//	settings := config.Chain(config.Env(), file)
//	idle, ok := settings.Get("session_idle_time")
//
// Env looks keys up upper-cased, so `session_idle_time` reads
// SESSION_IDLE_TIME. Chain returns the first source that has a non-empty
// value.
package config
