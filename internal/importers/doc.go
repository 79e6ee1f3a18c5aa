// Package importers turns level bundles into stored categories and words.
//
// # Flow
//
//	ZIP file → archive.Archive → archive.Scan → Importer → Store
//
// The importer walks the levels of a bundle one at a time. A level without a
// background picture is skipped with a warning. Otherwise its category is
// created first, then its words are read from the archive and handed to the
// store in batches, one transaction per batch.
//
// Nothing short of an unreadable archive or a cancelled context stops an
// import: a word that cannot be read or saved, or a level whose category
// cannot be created, is recorded as a Warning and the importer moves on.
//
// # Progress
//
// Callers follow an import through a ProgressFunc receiving discrete events:
//
//	importer.Import(ctx, bundle, func(ev importers.Event) {
//		switch ev.Type {
//		case importers.EventLevelCompleted:
//			fmt.Printf("%d/%d %s: %d words\n", ev.Index, ev.Total, ev.Directory, ev.WordsCreated)
//		case importers.EventSummary:
//			fmt.Println(ev.Result.Summary())
//		}
//	})
//
// Events are delivered synchronously on the importing goroutine.
package importers
