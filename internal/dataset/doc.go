// Package dataset fetches and parses published geoscience datasets.
//
// # Sources
//
// The registry pins the URLs and SHA-256 digests of the published files:
//
//   - Magnetic lineation picks and seafloor fabric from the Global Seafloor
//     Fabric and Magnetic Lineations (GSFML) database (Seton et al.),
//     distributed as OGR/GMT ASCII files from soest.hawaii.edu.
//   - The Pacific seamount age compilation mirrored on the GMT data cache.
//   - The Kim & Wessel global seamount census (KWSMTS v01).
//   - Large igneous province / volcanic province polygons from the GPlates
//     2.2 sample data (Whittaker et al. 2015, Johansson et al. 2018),
//     distributed as zipped ESRI shapefiles.
//
// Files are cached locally via the fetch package; every loader can also
// return just the cached path so callers can hand the file to other tools.
//
// # Formats
//
// OGR/GMT ASCII: "#" header lines, "# @N" field-name declarations, ">"
// segment separators each optionally followed by a "# @D" attribute row,
// then "lon lat [...]" coordinate lines.
//
// Whitespace tables: one record per line, columns separated by runs of
// spaces/tabs, with dataset-specific comment markers and header line counts.
package dataset
