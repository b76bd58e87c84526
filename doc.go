/*
Package coc_client provides a fluent client for the Clash of Clans REST API.

Every request is described by an immutable ApiCall. Chaining Attr and Call accumulates
path segments and query parameters; nothing is sent until Get or Post is invoked:

	coc, err := coc_client.NewClashOfClans(&coc_client.CocConfig{BearerToken: token})
	if err != nil {
		log.Fatal(err)
	}
	result, err := coc.Locations().Call(32000006).Attr("rankings").Attr("clans").Get(ctx)

Responses are normalized into a ListResult (bodies with an `items` key) or a RecordResult.
API-level failures such as 404 are not Go errors: inspect Result.HasError and
Result.ErrorMessage instead. Paginated collections expose Next and Previous builders that
are primed with the `after` / `before` cursors; PageIterator walks them for you.

The configuration allows customization of the endpoint, API version, timeouts, proxy
behaviour, logging (zap, or the COC_LOG environment variable) and request/response hooks.
*/
package coc_client
