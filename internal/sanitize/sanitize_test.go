package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	t.Run("encodes html special characters", func(t *testing.T) {
		got := String(`<script>alert("hi") & 'bye'</script>`)
		assert.Equal(t, "&lt;script&gt;alert(&quot;hi&quot;) &amp; &#39;bye&#39;&lt;/script&gt;", got)
		assert.NotContains(t, got, "<")
		assert.NotContains(t, got, ">")
		assert.NotContains(t, got, `"`)
		assert.NotContains(t, got, "'")
	})

	t.Run("trims whitespace", func(t *testing.T) {
		assert.Equal(t, "hello", String("  hello\t\n"))
	})

	t.Run("idempotent", func(t *testing.T) {
		inputs := []string{
			`<b>&"'</b>`,
			"plain text",
			"mixed &amp; raw & entity",
			"&lt;already encoded&gt;",
		}
		for _, in := range inputs {
			once := String(in)
			assert.Equal(t, once, String(once), "re-sanitizing %q must be a no-op", in)
		}
	})

	t.Run("bare ampersand not part of entity is encoded", func(t *testing.T) {
		assert.Equal(t, "a &amp; b", String("a & b"))
		assert.Equal(t, "&amp;nbsp;", String("&nbsp;"))
	})
}

func TestValue(t *testing.T) {
	t.Run("walks nested structures", func(t *testing.T) {
		in := map[string]any{
			"name": " <b>Tee</b> ",
			"tags": []any{"a&b", 3, map[string]any{"note": `say "hi"`}},
			"qty":  7,
		}
		out := Value(in).(map[string]any)
		assert.Equal(t, "&lt;b&gt;Tee&lt;/b&gt;", out["name"])
		tags := out["tags"].([]any)
		assert.Equal(t, "a&amp;b", tags[0])
		assert.Equal(t, 3, tags[1])
		assert.Equal(t, "say &quot;hi&quot;", tags[2].(map[string]any)["note"])
		assert.Equal(t, 7, out["qty"])
	})

	t.Run("non-string scalars pass through", func(t *testing.T) {
		assert.Equal(t, 42, Value(42))
		assert.Equal(t, true, Value(true))
		assert.Nil(t, Value(nil))
	})
}
