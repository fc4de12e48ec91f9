// Package extract turns registry markup into typed records.
//
// The functions in this package are pure: they read only their input
// markup, share no state and never return errors for missing elements.
// A field whose element cannot be found is left as an empty string and
// a role group without cards is left as an empty slice. They are safe to
// call from any number of goroutines.
//
// Three entry points cover the registry pages:
//
//   - Contact / ContactFromLines: one person's contact block
//   - Detail: one entity's detail page
//   - EntityList: the search result table listing every entity
package extract
