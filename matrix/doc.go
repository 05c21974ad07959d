// SPDX-License-Identifier: MIT

// Package matrix provides the dense row-major design matrices used by the
// classifier, plus NaN-aware column statistics.
//
// Conventions:
//   - Rows are samples, columns are features.
//   - Public indexers return ErrOutOfRange instead of panicking.
//   - Statistics skip NaN cells; a column with no finite cell has mean 0 and
//     standard deviation 0.
//   - Fixed i→j traversal everywhere, so results are bit-for-bit stable.
package matrix
