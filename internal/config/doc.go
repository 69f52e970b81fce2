// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

/*
Package config provides layered application configuration.

Configuration is loaded with Koanf v2 from three sources in increasing
precedence: built-in defaults, an optional YAML config file, and
CINEHUB_-prefixed environment variables.

Example:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal().Err(err).Msg("failed to load config")
	}
	// cfg.TMDB.APIKey, cfg.Server.Port, etc. are now populated

The only setting without a usable default is tmdb.api_key
(CINEHUB_TMDB_API_KEY); Load fails validation without it.
*/
package config
