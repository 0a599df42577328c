// Package config loads the auox configuration file.
//
// # Overview
//
// auox needs SpareBank 1 API credentials before it can do anything, so unlike
// most config loaders a missing file is not silently replaced by defaults.
// Instead Load writes a commented template next to the expected path and
// returns ErrTemplateCreated, telling the user what to fill in.
//
// # Resolution
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/auox/config.toml
//  3. Missing file: write the template and return ErrTemplateCreated
//  4. Present file: required fields must be set, optional ones fall back
//
// # TOML Format
//
//	client_id = "..."
//	client_secret = "..."
//	financial_institution = "fid-smn"
//	# optional
//	api_base_url = "https://api.sparebank1.no"
//	auth_base_url = "https://api-auth.sparebank1.no"
//	redirect_port = 8321
//	callback_timeout_seconds = 300
//	data_dir = "~/.local/share/auox"
//
// # Derived Paths
//
//   - TokenPath: <data_dir>/auth.json, the single cached token record
//   - LogPath: <data_dir>/auox.log
//
// Tilde expansion is performed for the config path and data_dir.
package config
