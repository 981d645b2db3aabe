// Package model defines the core data structures used throughout panelkit.
//
// This package contains the following main types:
//   - Point: A zoom-independent percentage coordinate on a page
//   - Rectangle: An axis-aligned bounding box in percentage units
//   - Panel: A committed rectangle plus the serialized path that produced it
//   - LoadedImage: A decoded page image with its filename and metadata
//   - Result: The exported panel list of one page
//   - Export: Every result of a session with the image facts needed to read it
//
// Models live in their own package because geometry, drawing, registry,
// session, report and database all exchange them.
package model
