package scanner

const systemPrompt = `You pick the most promising deals from a list of listings.
Choose the listings with the most detailed, high quality product description and a clearly stated price.
Reply strictly in JSON matching the requested schema, with no explanation.
Derive the price as a number from the listing text. Skip any listing whose price is unclear.
Phrases like "$XXX off" or "reduced by $XXX" state a discount, not the price of the product.
Only include products when you are highly confident about the price.`

const userPromptPrefix = `Select the %d most promising deals from the list below: those with the most detailed product description and a clear price greater than 0.
Rewrite each description as a short paragraph summarising the product itself, not the terms of the deal.
Keep the url of each selected listing exactly as given.

Deals:

`

const userPromptSuffix = "\n\nReply in JSON only and include exactly %d deals, no more."
