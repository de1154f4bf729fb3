// Package engine ties the algorithm catalog, the worker pool, and the
// result cache into one entry point. Both CLI and API execute requests
// through an [Engine], so caching and dispatch logic live in one place.
//
// Submissions check the result cache first: a hit settles the returned
// handle immediately without occupying a worker, a miss runs on the
// pool and stores the result on success. Cache keys derive from the
// canonical graph hash, the algorithm name, and the request options,
// so logically identical requests share an entry regardless of node
// order or map iteration order. Storage is write-behind: a request
// racing a just-settled identical request may recompute once.
package engine
