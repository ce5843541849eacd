package snapshot

// MarkerAttr is the non-rendering attribute written into the page to durably
// tag elements. It is the only thing that survives a process boundary: refs
// are re-derived from markers, never from live element handles.
const MarkerAttr = "data-tb-marker"

// InteractiveQuery selects the elements a user can act on.
const InteractiveQuery = `a, button, input, select, textarea, [role="button"], [role="link"], ` +
	`[role="tab"], [role="checkbox"], [role="radio"], [role="menuitem"], ` +
	`[tabindex], [onclick]`

// CursorQuery widens InteractiveQuery to elements that merely look clickable.
// Non-interactive hits are kept only when their computed cursor is "pointer".
const CursorQuery = InteractiveQuery + `, [style*="cursor"], [class]`

// tagScript runs in the page. It walks the scope in document order, tags
// each qualifying element with MarkerAttr (reusing an existing marker so
// re-running is idempotent), and reports raw facts per element. Markers are
// written as attributes only: no visible rendering or event behavior changes.
//
// arguments: [0] scope selector or "", [1] candidate query, [2] cursor mode,
// [3] base interactive query, [4] marker mint prefix.
const tagScript = `
const scopeSel = arguments[0];
const query = arguments[1];
const cursorMode = arguments[2];
const baseQuery = arguments[3];
const prefix = arguments[4];

const scope = scopeSel ? document.querySelector(scopeSel) : document;
if (!scope) return { found: false, elements: [] };

const out = [];
let seq = 0;

scope.querySelectorAll(query).forEach((el) => {
    const rect = el.getBoundingClientRect();
    if (rect.width === 0 || rect.height === 0) return;
    const tag = el.tagName.toLowerCase();
    if (['script', 'style', 'link', 'meta', 'head', 'html'].includes(tag)) return;

    if (cursorMode && !el.matches(baseQuery)) {
        if (window.getComputedStyle(el).cursor !== 'pointer') return;
    }

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
    const roleAttr = el.getAttribute('role') || '';
    const checkable = type === 'checkbox' || type === 'radio' ||
        ['checkbox', 'radio', 'switch'].includes(roleAttr);

    out.push({
        tag: tag,
        type: type,
        role: roleAttr,
        hasHref: el.hasAttribute('href'),
        ariaLabel: el.getAttribute('aria-label') || '',
        labelText: labelText,
        placeholder: el.getAttribute('placeholder') || '',
        text: (el.textContent || '').trim().slice(0, 80),
        title: el.getAttribute('title') || '',
        alt: el.getAttribute('alt') || '',
        value: typeof el.value === 'string' ? el.value : '',
        disabled: !!el.disabled || el.getAttribute('aria-disabled') === 'true',
        checked: !!el.checked,
        checkable: checkable,
        editable: (tag === 'input' && !checkable) || tag === 'textarea' || el.isContentEditable === true,
        marker: marker,
        rect: { x: rect.x, y: rect.y, w: rect.width, h: rect.height },
    });
});
return { found: true, elements: out };
`
