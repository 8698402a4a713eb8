package main_test

import "time"

var testTime = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

// productPage is a selector-list product with one on-page and one looked-up variant.
const productPage = `<html>
<head><title>Notre Offre \ Splitters \ Front | maxton-design</title></head>
<body>
<div class="projector_navigation"><h1>Front Splitter</h1></div>
<div class="proj_code"><strong>MX-1</strong></div>
<div class="photos"><a class="projector_medium_image" href="/1.jpg"></a></div>
<strong id="projector_price_value">100,00 €</strong>
<div class="fancy-select"><ul>
	<li class="selected" data-title="Gloss Black" data-product="1" data-values_id="10"></li>
	<li data-title="Carbon" data-product="1" data-values_id="11"></li>
</ul></div>
</body></html>`
