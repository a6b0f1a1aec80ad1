// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package httpapi

import "html/template"

type indexData struct {
	Preview bool
}

var indexPage = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>ePaper</title>
</head>
<body>
  <div>
    <button onclick="run('/toggle_screen_color')">Toggle Screen</button>
    <button onclick="run('/clear_screen')">Clear Screen</button>
    <button onclick="run('/dummy_screen')">Dummy Screen</button>
  </div>
  <form id="text">
    <input name="text" placeholder="text" required>
    <input name="x" type="number" min="0" value="20" required>
    <input name="y" type="number" min="0" value="20" required>
    <button type="submit">Draw Text</button>
  </form>
  <div id="status"></div>
{{- if .Preview}}
  <img src="/stream" alt="display preview" style="border: 1px solid #888">
{{- end}}
<script>
  const status = document.getElementById('status');
  function report(resp) {
    resp.text().then(t => { status.textContent = resp.status + ' ' + t; });
  }
  function run(path) {
    status.textContent = '...';
    fetch(path, {method: 'POST'}).then(report);
  }
  document.getElementById('text').addEventListener('submit', ev => {
    ev.preventDefault();
    status.textContent = '...';
    fetch('/draw_text', {method: 'POST', body: new URLSearchParams(new FormData(ev.target))}).then(report);
  });
</script>
</body>
</html>
`))
