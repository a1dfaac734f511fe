// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package browser

import (
	"encoding/json"
	"fmt"
)

// JSString encodes s as a JavaScript string literal.
func JSString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// json.Marshal never fails on a string.
		panic(err)
	}
	return string(b)
}

const visibleFn = `const visible = (el) => {
  const s = window.getComputedStyle(el);
  if (s.visibility === 'hidden' || s.display === 'none') return false;
  const r = el.getBoundingClientRect();
  return r.width > 0 && r.height > 0;
};`

// snapshotScript returns every element matching selector with its text,
// attributes and visibility. It always evaluates to an array.
func snapshotScript(selector string) string {
	return fmt.Sprintf(`(() => {
%s
  return Array.from(document.querySelectorAll(%s)).map((el) => {
    const attrs = {};
    for (const a of el.attributes) attrs[a.name] = a.value;
    return { text: (el.innerText ?? el.textContent ?? ''), attrs, visible: visible(el) };
  });
})()`, visibleFn, JSString(selector))
}

// markScript resolves t in the page and tags the match with marker. It
// evaluates to true when an element was tagged. Among elements containing
// the text the deepest ones are preferred, so "button containing Save"
// picks the button rather than a wrapping toolbar matching the same selector.
func markScript(t Target, marker string) string {
	return fmt.Sprintf(`(() => {
%s
  const attr = %s;
  document.querySelectorAll('[' + attr + ']').forEach((el) => el.removeAttribute(attr));
  let els = Array.from(document.querySelectorAll(%s));
  const needle = %s;
  if (needle) {
    els = els.filter((el) => (el.textContent || '').includes(needle));
    els = els.filter((el) => !els.some((o) => o !== el && el.contains(o)));
  }
  if (!%t) els = els.filter(visible);
  const el = els[%d];
  if (!el) return false;
  el.setAttribute(attr, %s);
  return true;
})()`, visibleFn, JSString(targetAttr), JSString(t.Selector), JSString(t.Contains), t.Force, t.Index, JSString(marker))
}
