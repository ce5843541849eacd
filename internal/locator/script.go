package locator

// findScript runs in the page. It enumerates candidates for one semantic
// strategy, tags each with a durable marker (reusing existing ones), and
// returns the same raw fact records the snapshot tagging script produces.
// Final filtering (exactness, computed role, name narrowing) happens on the
// Go side.
//
// arguments: [0] kind, [1] value, [2] marker mint prefix,
// [3] extra (testid attribute for "testid", implicit-role selector for
// "role", unused otherwise), [4] exact flag for text and label matching.
//
// Text and label matching happens here, against the full text; the text
// field in the returned records is truncated for display and is not
// re-checked on the Go side.
const findScript = `
const kind = arguments[0];
const value = arguments[1];
const prefix = arguments[2];
const extra = arguments[3];
const exact = arguments[4];

let seq = 0;

function hit(hay) {
    hay = hay || '';
    return exact ? hay.trim() === value : hay.includes(value);
}

function esc(v) {
    return v.replace(/"/g, '\\"');
}

function docOrder(list) {
    return list.sort((a, b) =>
        a.compareDocumentPosition(b) & Node.DOCUMENT_POSITION_FOLLOWING ? -1 : 1);
}

let candidates = [];

if (kind === 'text') {
    const skip = ['script', 'style', 'head', 'html', 'meta', 'link'];
    const matches = Array.from(document.querySelectorAll('*')).filter((el) => {
        if (skip.includes(el.tagName.toLowerCase())) return false;
        return hit(el.textContent);
    });
    // Keep innermost matches only, otherwise every ancestor up to <body> hits.
    candidates = matches.filter((el) => !matches.some((o) => o !== el && el.contains(o)));
} else if (kind === 'label') {
    const out = [];
    document.querySelectorAll('label').forEach((l) => {
        if (!hit(l.textContent)) return;
        const c = l.htmlFor
            ? document.getElementById(l.htmlFor)
            : l.querySelector('input, select, textarea, button');
        if (c) out.push(c);
    });
    document.querySelectorAll('[aria-label]').forEach((el) => {
        if (hit(el.getAttribute('aria-label'))) out.push(el);
    });
    document.querySelectorAll('[aria-labelledby]').forEach((el) => {
        const ids = (el.getAttribute('aria-labelledby') || '').split(/\s+/);
        const text = ids
            .map((id) => {
                const r = document.getElementById(id);
                return r ? r.textContent : '';
            })
            .join(' ');
        if (hit(text)) out.push(el);
    });
    candidates = docOrder(Array.from(new Set(out)));
} else if (kind === 'role') {
    let sel = '[role="' + esc(value) + '"]';
    if (extra) sel += ',' + extra;
    // querySelectorAll returns document order; keep explicit matches and
    // implicit ones without a conflicting explicit role.
    candidates = Array.from(document.querySelectorAll(sel)).filter((el) => {
        const r = el.getAttribute('role');
        return r === value || !r;
    });
} else if (kind === 'testid') {
    candidates = Array.from(document.querySelectorAll('[' + extra + '="' + esc(value) + '"]'));
} else if (kind === 'placeholder' || kind === 'alt' || kind === 'title') {
    candidates = Array.from(document.querySelectorAll('[' + kind + '="' + esc(value) + '"]'));
} else {
    // first / last / nth: value is a raw CSS selector, selection is Go-side.
    candidates = Array.from(document.querySelectorAll(value));
}

return candidates.map((el) => {
    let marker = el.getAttribute('data-tb-marker');
    if (!marker) {
        marker = prefix + '-' + (++seq);
        el.setAttribute('data-tb-marker', marker);
    }

    let labelText = '';
    if (el.labels && el.labels.length > 0) {
        labelText = el.labels[0].textContent.trim();
    }

    const type = (el.getAttribute('type') || '').toLowerCase();
    return {
        tag: el.tagName.toLowerCase(),
        type: type,
        role: el.getAttribute('role') || '',
        hasHref: el.hasAttribute('href'),
        ariaLabel: el.getAttribute('aria-label') || '',
        labelText: labelText,
        placeholder: el.getAttribute('placeholder') || '',
        text: (el.textContent || '').trim().slice(0, 80),
        title: el.getAttribute('title') || '',
        alt: el.getAttribute('alt') || '',
        value: typeof el.value === 'string' ? el.value : '',
        disabled: !!el.disabled,
        checked: !!el.checked,
        marker: marker,
    };
});
`
