// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package contract provides validation constants and utilities shared by
// the clone-detection collector.
//
// # Soft Size Limits
//
// The collector enforces a soft limit on individual source file size to
// avoid reading pathologically large generated or vendored files into
// memory during a scan:
//
//	// Default limit is 8 MiB
//	limit := contract.SoftLimitBytes()
//
//	// Validate a candidate file before reading it
//	result := contract.ValidateSourceFile(path, info.Size())
//	if !result.OK {
//	    log.Printf("skipping %s: %s", path, result.Message)
//	}
//
// # Configuration via Environment
//
// The soft limit can be adjusted via the CLONEHUNTER_SOFT_LIMIT_BYTES
// environment variable:
//
//	export CLONEHUNTER_SOFT_LIMIT_BYTES=4194304  # 4 MiB
//
// If the environment variable is not set or invalid, the default limit
// of 8 MiB (DefaultSoftLimitBytes) is used.
package contract
