// Package fixtures provides canned Instagram payloads shared across test
// packages.
package fixtures

import "fmt"

// CakeMarbreCaption is a realistic food caption used across the extraction
// and generation tests.
const CakeMarbreCaption = "CAKE MARBRÉ 🍫\n" +
	"La recette du goûter parfait by @louloukitchen\n" +
	"Ingrédients:\n" +
	"- 200g de farine\n" +
	"- 150g de beurre\n" +
	"- 120g de sucre\n" +
	"- 3 oeufs\n" +
	"- 100g de chocolat noir\n" +
	"Four 180°C, 45 minutes."

// GraphQLPayload builds a GraphQL response carrying the caption under the
// current media key and edge list shape.
func GraphQLPayload(caption string) string {
	return fmt.Sprintf(`{
  "data": {
    "xdt_shortcode_media": {
      "id": "3349571806398847123",
      "edge_media_to_caption": {
        "edges": [
          {"node": {"text": %q}}
        ]
      }
    }
  },
  "status": "ok"
}`, caption)
}

// LegacyGraphQLPayload builds a response using the pre-rename media key and
// a flat caption field.
func LegacyGraphQLPayload(caption string) string {
	return fmt.Sprintf(`{
  "data": {
    "shortcode_media": {
      "caption": %q
    }
  }
}`, caption)
}

// EmptyGraphQLPayload is a valid response whose media object carries no
// caption in any known field.
const EmptyGraphQLPayload = `{
  "data": {
    "xdt_shortcode_media": {
      "id": "3349571806398847123",
      "edge_media_to_caption": {"edges": []}
    }
  }
}`

// LoginWallHTML is what the GraphQL endpoint answers when it refuses a
// request: an HTML page, not JSON.
const LoginWallHTML = `<!DOCTYPE html>
<html lang="en"><head><title>Login • Instagram</title></head>
<body>Log in to continue.</body></html>`

// PageWithOGDescription builds a post page exposing the caption through the
// open-graph meta tag.
func PageWithOGDescription(caption string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html><head>
<meta property="og:title" content="Instagram post"/>
<meta property="og:description" content="%s"/>
</head><body></body></html>`, caption)
}

// PageWithSharedData builds a post page exposing the caption through the
// legacy window._sharedData global.
func PageWithSharedData(caption string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html><head><script>
window._sharedData = {"entry_data":{"PostPage":[{"graphql":{"shortcode_media":{"edge_media_to_caption":{"edges":[{"node":{"text":%q}}]}}}}]}};
</script></head><body></body></html>`, caption)
}

// PageWithJSONLD builds a post page exposing the caption through the
// structured-data script block.
func PageWithJSONLD(caption string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html><head>
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"SocialMediaPosting","description":%q}
</script>
</head><body></body></html>`, caption)
}

// PageWithEmbeddedGraphQL builds a post page with GraphQL data inlined in a
// script body without any named global.
func PageWithEmbeddedGraphQL(caption string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html><body><script>
require("PolarisQueryData", {"edge_media_to_caption": {"edges": [{"node": {"text": %q}}]}});
</script></body></html>`, caption)
}

// PageWithoutCaption is a post page none of the techniques can mine.
const PageWithoutCaption = `<!DOCTYPE html>
<html><head><title>Instagram</title></head><body>Nothing here.</body></html>`

// OEmbedPayload builds an oEmbed response body.
func OEmbedPayload(title, authorName string) string {
	return fmt.Sprintf(`{"version":"1.0","type":"rich","title":%q,"author_name":%q,"provider_name":"Instagram"}`, title, authorName)
}
