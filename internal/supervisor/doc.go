// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

// Package supervisor wraps the long-running parts of the service in a
// suture supervisor tree so a crash in one service is restarted with
// backoff instead of taking down the process.
package supervisor
